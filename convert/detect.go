package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"
)

// errNotHTML is returned for inputs recognized as binary files.
var errNotHTML = errors.New("input is not html document")

// filetype needs 262 bytes at most to make a decision
const sniffLen = 262

var htmlExtensions = []string{".html", ".htm", ".xhtml"}

func isHTMLName(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range htmlExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isArchiveFile checks that file has zip extension and zip content.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// checkNotBinary rejects data which filetype recognizes as a known binary
// format (images, archives, documents, executables).
func checkNotBinary(data []byte) error {
	head := data[:min(len(data), sniffLen)]
	kind, err := filetype.Match(head)
	if err != nil {
		return fmt.Errorf("unable to detect file type: %w", err)
	}
	if kind != filetype.Unknown {
		return fmt.Errorf("%w: looks like %s (%s)", errNotHTML, kind.Extension, kind.MIME.Value)
	}
	return nil
}

// readDocument reads html document and converts it to UTF-8 using BOM, meta
// tags or content sniffing. Name of detected encoding is returned as well.
func readDocument(r io.Reader) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("unable to read input: %w", err)
	}
	if len(data) == 0 {
		return "", "", nil
	}
	if err := checkNotBinary(data); err != nil {
		return "", "", err
	}

	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, fmt.Errorf("unable to decode input as %s: %w", name, err)
	}
	return strings.TrimPrefix(string(decoded), "\ufeff"), name, nil
}
