package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studydeck/internal/client/generation"
	"github.com/dmitrijs2005/studydeck/internal/filex"
	"golang.org/x/term"
)

// Interactive input goes through these variables so tests can replace
// the terminal and the filesystem.
var (
	promptLine     = readLine
	promptPassword = readSecret
	readPassword   = term.ReadPassword
	readFile       = func(path string) ([]byte, error) {
		return filex.ReadLimited(path, generation.MaxDocumentSize)
	}
)

// readLine shows prompt followed by a "> " marker and returns the trimmed
// line typed. A last line without a newline still counts.
func readLine(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a password from stdin without echo. The caller wipes
// the result with common.Wipe.
func readSecret(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return pw, err
}

const defaultContentType = "application/octet-stream"

// LoadFile reads path for upload, taking the content type from its
// extension. Files over generation.MaxDocumentSize are refused unread.
func LoadFile(path string) (generation.File, error) {
	data, err := readFile(path)
	if err != nil {
		return generation.File{}, err
	}
	f := generation.File{Name: filepath.Base(path), ContentType: defaultContentType, Data: data}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); ct != "" {
		f.ContentType = ct
	}
	return f, nil
}

// parseIndex converts a 1-based position typed by the user into an index
// into a list of n items.
func parseIndex(arg string, n int) (int, error) {
	if i, err := strconv.Atoi(arg); err == nil && i >= 1 && i <= n {
		return i - 1, nil
	}
	return 0, fmt.Errorf("no deck #%s", arg)
}
