// Package targets loads the probe target list from a plain-text file.
package targets

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads one URL per line from path. Blank lines and lines starting
// with '#' are skipped. A missing or unreadable file is a setup failure and
// aborts the run.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	return urls, nil
}
