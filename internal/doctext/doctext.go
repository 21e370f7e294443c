// Package doctext pulls UTF-8 text out of uploaded files. PDFs go through
// the embedded text layer; scanned image-only PDFs come back empty, which
// downstream treats as "zero questions found" rather than an error.
package doctext

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pageSpace = regexp.MustCompile(` +`)

// ExtractFile reads path and returns its text. ".pdf" files use text-layer
// extraction; everything else is read as plain UTF-8 text. Errors are I/O
// only; a file with no extractable text yields "".
func ExtractFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractPDF(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return string(b), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				ft := p.Font(name)
				fonts[name] = &ft
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		text = pageSpace.ReplaceAllString(text, " ")
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
