// Package ndjson reads newline-delimited JSON streams line by line.
package ndjson

import (
	"bufio"
	"bytes"
	"io"
)

// initialBufSize is the starting buffer size for the line reader.
// Assistant messages with large tool inputs routinely exceed 64KB,
// so the reader grows as needed rather than failing on long lines.
const initialBufSize = 64 * 1024

// Reader yields one trimmed, non-empty line per call.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r in a line reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, initialBufSize)}
}

// ReadLine returns the next non-empty line without its trailing newline.
// Blank lines are skipped. A final unterminated line is returned before EOF;
// the subsequent call reports io.EOF.
func (r *Reader) ReadLine() ([]byte, error) {
	for {
		line, err := r.br.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return line, nil
			}
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
}
