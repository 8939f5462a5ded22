package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetTextWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetTextWithDefault(rdr("\n"), "City", "Recife", &out)
	require.NoError(t, err)
	assert.Equal(t, "Recife", got)
	assert.Contains(t, out.String(), "City [Recife]")

	got, err = GetTextWithDefault(rdr("Olinda\n"), "City", "Recife", &out)
	require.NoError(t, err)
	assert.Equal(t, "Olinda", got)
}

func TestGetYesNo(t *testing.T) {
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "sim\n": true, "n\n": false, "\n": false, "maybe\n": false} {
		got, err := GetYesNo(rdr(in), "Accept?", io.Discard)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestGetList(t *testing.T) {
	got, err := GetList(rdr(" a.png, ,http://x/b.jpg ,\n"), "Images", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "http://x/b.jpg"}, got)

	got, err = GetList(rdr("\n"), "Images", io.Discard)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetMultiline_EOF(t *testing.T) {
	got, err := GetMultiline(rdr("only"), "Enter text", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "only", got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out)
	assert.Error(t, err)
}
