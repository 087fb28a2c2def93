package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "trims newline and spaces", input: "  hello world \n", want: "hello world"},
		{name: "last line without newline", input: "lastline", want: "lastline"},
		{name: "nothing typed", input: "", wantErr: io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readLine(bufio.NewReader(strings.NewReader(tt.input)), "Name?", &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Name?\n> ", out.String())
		})
	}
}

func stubPassword(t *testing.T, pw []byte, err error) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return pw, err }
	t.Cleanup(func() { readPassword = orig })
}

func TestReadSecret(t *testing.T) {
	stubPassword(t, []byte("s3cret"), nil)

	var out bytes.Buffer
	pw, err := readSecret(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestReadSecret_TerminalError(t *testing.T) {
	stubPassword(t, nil, errors.New("not a terminal"))

	_, err := readSecret(io.Discard)
	assert.EqualError(t, err, "not a terminal")
}

func TestLoadFile(t *testing.T) {
	orig := readFile
	t.Cleanup(func() { readFile = orig })
	readFile = func(name string) ([]byte, error) {
		if strings.Contains(name, "missing") {
			return nil, os.ErrNotExist
		}
		return []byte("%PDF"), nil
	}

	f, err := LoadFile("/home/u/Notes.PDF")
	require.NoError(t, err)
	assert.Equal(t, "Notes.PDF", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, []byte("%PDF"), f.Data)

	f, err = LoadFile("rec.unknownext")
	require.NoError(t, err)
	assert.Equal(t, defaultContentType, f.ContentType)

	_, err = LoadFile("/tmp/missing.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseIndex(t *testing.T) {
	i, err := parseIndex("2", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	for _, bad := range []string{"0", "4", "x", "-1", ""} {
		_, err := parseIndex(bad, 3)
		assert.Error(t, err, bad)
	}
}
