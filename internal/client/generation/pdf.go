package generation

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/ledongthuc/pdf"
)

// MaxDocumentSize caps uploaded source documents.
const MaxDocumentSize = 20 << 20

// InspectDocument checks that file is a readable PDF and returns its page
// count. Anything else is common.ErrInvalidUserInput.
func InspectDocument(file File) (int, error) {
	if !strings.EqualFold(filepath.Ext(file.Name), ".pdf") {
		return 0, fmt.Errorf("%w: file must be a PDF", common.ErrInvalidUserInput)
	}
	if len(file.Data) == 0 {
		return 0, fmt.Errorf("%w: file is empty", common.ErrInvalidUserInput)
	}
	if len(file.Data) > MaxDocumentSize {
		return 0, fmt.Errorf("%w: file is larger than %d bytes", common.ErrInvalidUserInput, MaxDocumentSize)
	}

	pages, err := countPages(file.Data)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable PDF: %v", common.ErrInvalidUserInput, err)
	}
	if pages == 0 {
		return 0, fmt.Errorf("%w: PDF has no pages", common.ErrInvalidUserInput)
	}
	return pages, nil
}

func countPages(data []byte) (pages int, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}
