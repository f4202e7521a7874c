package ndjson

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine_SkipsBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\n\n   \n{\"b\":2}\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(line))

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(line))

	_, err = r.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestReadLine_UnterminatedFinalLine(t *testing.T) {
	r := NewReader(strings.NewReader(`{"tail":true}`))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"tail":true}`, string(line))

	_, err = r.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestReadLine_LongLine(t *testing.T) {
	long := `{"text":"` + strings.Repeat("x", 256*1024) + `"}`
	r := NewReader(strings.NewReader(long + "\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, long, string(line))
}

func TestReadLine_TrimsCarriageReturn(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\r\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(line))
}
