package artifact

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// Info summarizes a PDF artifact.
type Info struct {
	Pages int `json:"pages"`
	Bytes int `json:"bytes"`
}

// Inspect parses data and reports its page count.
func Inspect(data []byte) (info Info, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return Info{}, ErrNotPDF
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	return Info{Pages: reader.NumPage(), Bytes: len(data)}, nil
}
