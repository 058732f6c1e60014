package aeolus

import (
	"bufio"
	"io"
	"strings"
)

// Line is one non-empty line of a definition split into whitespace separated
// tokens. Number is the 1-based line number in the source.
type Line struct {
	Number int
	Tokens []string
}

// Keyword returns the first token without its leading slash; Aeolus writes
// directives as "/rank", but "rank" is accepted too.
func (l Line) Keyword() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	return strings.TrimPrefix(l.Tokens[0], "/")
}

// Args returns the tokens following the keyword.
func (l Line) Args() []string {
	if len(l.Tokens) == 0 {
		return nil
	}
	return l.Tokens[1:]
}

// Scanner reads a definition line by line, skipping blank lines.
type Scanner struct {
	s       *bufio.Scanner
	lineNum int
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{s: bufio.NewScanner(r)}
}

// Next returns the next non-empty line. ok is false at the end of input or on
// a read error; check Err afterwards.
func (s *Scanner) Next() (line Line, ok bool) {
	for s.s.Scan() {
		s.lineNum++
		tokens := strings.Fields(s.s.Text())
		if len(tokens) == 0 {
			continue
		}
		return Line{Number: s.lineNum, Tokens: tokens}, true
	}
	return Line{}, false
}

func (s *Scanner) Err() error {
	return s.s.Err()
}

// Tokenize reads all lines of r.
func Tokenize(r io.Reader) ([]Line, error) {
	s := NewScanner(r)
	var lines []Line
	for {
		line, ok := s.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
