package readers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/vtkio/grid"
)

// maxLineLength bounds a single line, cell lines of high order elements get long
const maxLineLength = 64 * 1024 * 1024

// lineCursor is a forward only cursor over the lines of a file held in memory
type lineCursor struct {
	lines []string
	pos   int // index of the next unread line
}

func newLineCursor(r io.Reader) (*lineCursor, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &lineCursor{lines: lines}, nil
}

func (c *lineCursor) eof() bool { return c.pos >= len(c.lines) }

// peek returns the next line, trimmed, without consuming it
func (c *lineCursor) peek() (string, bool) {
	if c.eof() {
		return "", false
	}
	return strings.TrimSpace(c.lines[c.pos]), true
}

// next consumes one line
func (c *lineCursor) next() (string, error) {
	if c.eof() {
		return "", c.errorf("unexpected end of file")
	}
	line := strings.TrimSpace(c.lines[c.pos])
	c.pos++
	return line, nil
}

// take consumes n lines, all of which must be present
func (c *lineCursor) take(n int) ([]string, error) {
	if n > len(c.lines)-c.pos {
		return nil, c.errorf("unexpected end of file: need %d lines, %d left",
			n, len(c.lines)-c.pos)
	}
	lines := c.lines[c.pos : c.pos+n]
	c.pos += n
	return lines, nil
}

func (c *lineCursor) skipBlank() {
	for !c.eof() && strings.TrimSpace(c.lines[c.pos]) == "" {
		c.pos++
	}
}

// expectHeader consumes the next non blank line, which must start with
// keyword and hold at least nfields whitespace separated fields
func (c *lineCursor) expectHeader(keyword string, nfields int) ([]string, error) {
	c.skipBlank()
	line, err := c.next()
	if err != nil {
		return nil, fmt.Errorf("expected %s: %w", keyword, err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.EqualFold(fields[0], keyword) {
		return nil, c.errorf("expected %s, got %q", keyword, line)
	}
	if len(fields) < nfields {
		return nil, c.errorf("%s needs %d fields, got %q", keyword, nfields, line)
	}
	return fields, nil
}

// count parses a non negative section size
func (c *lineCursor) count(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, c.errorf("invalid count %q", field)
	}
	return n, nil
}

// errorf reports a format error at the last consumed line
func (c *lineCursor) errorf(format string, args ...any) error {
	return c.errorAt(c.pos, format, args...)
}

// errorAt reports a format error at a 1-based line number
func (c *lineCursor) errorAt(lineNo int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", grid.ErrFormat, lineNo, fmt.Sprintf(format, args...))
}

func parseFloats(line string, n int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	vals := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		vals[i] = v
	}
	return vals, nil
}
