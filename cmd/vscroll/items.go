package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"
)

const maxLineBytes = 1 << 20

func loadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	lines, err := readLines(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, normalizeLine(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// normalizeLine composes the line to NFC so that filtering and width
// calculations see one code point per accented letter.
func normalizeLine(line string) string {
	line = strings.TrimRight(line, "\r")
	line = strings.ReplaceAll(line, "\t", "    ")
	return norm.NFC.String(line)
}

// generateItems returns count synthetic rows numbered from start.
func generateItems(start, count int) []string {
	items := make([]string, 0, count)
	for i := start; i < start+count; i++ {
		items = append(items, fmt.Sprintf("%07d  %s", i, uuid.NewString()))
	}
	return items
}

// filterItems keeps the items that fuzzy-match pattern, in their original
// order.
func filterItems(items []string, pattern string) []string {
	pattern = norm.NFC.String(strings.TrimSpace(pattern))
	if pattern == "" {
		return items
	}
	matches := fuzzy.Find(pattern, items)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Index < matches[j].Index
	})
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}
	return out
}
