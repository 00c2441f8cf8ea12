package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidMarks = errors.New("invalid marks")

// ParseMarksInput parses form input such as "80, 90,85". Every token must be an
// integer; empty input is rejected.
func ParseMarksInput(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidMarks)
	}
	parts := strings.Split(text, ",")
	marks := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidMarks, p)
		}
		marks = append(marks, n)
	}
	return marks, nil
}

// ParseMarksLiteral parses the exported list form "[80, 90, 85]". Brackets are
// optional so a bare "80,90" or a single "75" also parses.
func ParseMarksLiteral(text string) ([]int, error) {
	s := strings.TrimSpace(text)
	open := strings.HasPrefix(s, "[")
	closed := strings.HasSuffix(s, "]")
	if open != closed {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrInvalidMarks, text)
	}
	if open {
		s = s[1 : len(s)-1]
	}
	if strings.ContainsAny(s, "[]") {
		return nil, fmt.Errorf("%w: nested list in %q", ErrInvalidMarks, text)
	}
	return ParseMarksInput(s)
}

// FormatMarks renders marks as "[80, 90, 85]".
func FormatMarks(marks []int) string {
	parts := make([]string, len(marks))
	for i, m := range marks {
		parts[i] = strconv.Itoa(m)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
