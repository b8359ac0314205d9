package utils

import "strings"

// Paragraphs splits text at blank lines. Each paragraph is trimmed; line
// breaks inside a paragraph are kept.
func Paragraphs(text string) []string {
	var out, lines []string
	flush := func() {
		if p := strings.TrimSpace(strings.Join(lines, "\n")); p != "" {
			out = append(out, p)
		}
		lines = lines[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return out
}

// Pack greedily joins consecutive units with sep into chunks whose size,
// as measured by size, stays within budget. A unit larger than budget
// becomes a chunk of its own; units are never split.
func Pack(units []string, budget int, size func(string) int, sep string) []string {
	var out, cur []string
	used := 0
	sepSize := size(sep)
	for _, u := range units {
		n := size(u)
		if len(cur) > 0 && used+sepSize+n > budget {
			out = append(out, strings.Join(cur, sep))
			cur, used = cur[:0], 0
		}
		if len(cur) > 0 {
			used += sepSize
		}
		cur = append(cur, u)
		used += n
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, sep))
	}
	return out
}
