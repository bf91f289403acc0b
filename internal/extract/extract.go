// Package extract dispatches a model.FileRecord to the reader for its
// category and returns normalised text for indexing. Extractors are a
// closed tagged set (code, tabular, pdf, document, plaintext) rather than
// an open interface: dispatch is a pure function of extension.
package extract

import (
	"bufio"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mvp-joe/fastsearch/internal/errs"
)

// Category is the tagged extractor variant selected by extension.
type Category string

const (
	CategoryCode      Category = "code"
	CategoryTabular   Category = "tabular"
	CategoryPDF       Category = "pdf"
	CategoryDocument  Category = "document"
	CategoryPlaintext Category = "plaintext"
)

var codeExtensions = set(
	"js", "ts", "jsx", "tsx", "py", "java", "cpp", "c", "h", "hpp", "rs", "go",
	"php", "rb", "pl", "sh", "sql", "html", "htm", "css", "xml", "yaml", "yml",
	"toml", "ini", "cfg", "conf",
)

var tabularExtensions = set("csv", "tsv")
var documentExtensions = set("docx", "doc")
var plaintextExtensions = set("txt", "md", "json", "log")

func set(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, i := range items {
		m[i] = struct{}{}
	}
	return m
}

// CategoryFor returns the extractor category for a lowercased extension
// (without the leading dot). Unknown extensions fall back to plaintext.
func CategoryFor(ext string) Category {
	ext = strings.ToLower(ext)
	switch {
	case contains(codeExtensions, ext):
		return CategoryCode
	case contains(tabularExtensions, ext):
		return CategoryTabular
	case ext == "pdf":
		return CategoryPDF
	case contains(documentExtensions, ext):
		return CategoryDocument
	default:
		return CategoryPlaintext
	}
}

func contains(m map[string]struct{}, key string) bool {
	_, ok := m[key]
	return ok
}

// CanExtract reports whether the extension belongs to a supported
// category; "document" is deliberately excluded.
func CanExtract(ext string) bool {
	return CategoryFor(ext) != CategoryDocument
}

// Extract reads path and returns normalised text for the given extension,
// using the package's default size caps. It is a convenience wrapper
// around the default Extractor for callers that have no caps to configure.
func Extract(path, ext string) (string, error) {
	return defaultExtractor.Extract(path, ext)
}

const (
	codeCap      = 5 * 1024 * 1024
	tabularCap   = 10 * 1024 * 1024
	pdfCap       = 50 * 1024 * 1024
	plaintextCap = 10 * 1024 * 1024

	maxCodeLines = 2000
	maxTabLines  = 1000
	maxPDFChars  = 50_000
)

// Options configures one Extractor's per-category byte caps. A zero field
// falls back to the package default for that category.
type Options struct {
	CodeCapBytes      int64
	TabularCapBytes   int64
	PDFCapBytes       int64
	PlaintextCapBytes int64
}

// Extractor dispatches a path to the reader for its category, honoring
// configured per-category size caps.
type Extractor struct {
	codeCap      int64
	tabularCap   int64
	pdfCap       int64
	plaintextCap int64
}

// New returns an Extractor with opts' caps, defaulting any zero field to the
// package's production limit.
func New(opts Options) *Extractor {
	e := &Extractor{
		codeCap:      opts.CodeCapBytes,
		tabularCap:   opts.TabularCapBytes,
		pdfCap:       opts.PDFCapBytes,
		plaintextCap: opts.PlaintextCapBytes,
	}
	if e.codeCap <= 0 {
		e.codeCap = codeCap
	}
	if e.tabularCap <= 0 {
		e.tabularCap = tabularCap
	}
	if e.pdfCap <= 0 {
		e.pdfCap = pdfCap
	}
	if e.plaintextCap <= 0 {
		e.plaintextCap = plaintextCap
	}
	return e
}

var defaultExtractor = New(Options{})

// Extract reads path and returns normalised text for the given extension,
// or an *errs.Error tagged Unsupported/OversizeLimit/IO on failure.
func (e *Extractor) Extract(path, ext string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errs.Wrap(errs.IO, "extract.Extract", err)
	}
	if !info.Mode().IsRegular() {
		return "", errs.New(errs.IO, "extract.Extract", "not a regular file: "+path)
	}

	switch CategoryFor(ext) {
	case CategoryCode:
		return e.extractCode(path, info.Size())
	case CategoryTabular:
		return e.extractTabular(path, info.Size())
	case CategoryPDF:
		return e.extractPDF(path, info.Size())
	case CategoryDocument:
		return "", errs.New(errs.Unsupported, "extract.Extract", "document formats are unsupported: "+ext)
	default:
		return e.extractPlaintext(path, info.Size())
	}
}

func openCapped(path string, size, cap int64) (*bufio.Scanner, *os.File, error) {
	if size > cap {
		return nil, nil, errs.New(errs.OversizeLimit, "extract.openCapped", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.IO, "extract.openCapped", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return sc, f, nil
}

var commentPrefixes = []string{"//", "#", "/*", "*", "*/", "<!--", "-->"}

// extractCode strips comment-leading and blank lines, keeps up to
// maxCodeLines, and joins the remainder by spaces.
func (e *Extractor) extractCode(path string, size int64) (string, error) {
	sc, f, err := openCapped(path, size, e.codeCap)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var kept []string
	for sc.Scan() && len(kept) < maxCodeLines {
		line := strings.TrimSpace(sc.Text())
		if line == "" || hasCommentPrefix(line) {
			continue
		}
		kept = append(kept, line)
	}
	if err := sc.Err(); err != nil {
		return "", errs.Wrap(errs.IO, "extract.extractCode", err)
	}
	return strings.Join(kept, " "), nil
}

func hasCommentPrefix(line string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// extractTabular splits each of up to maxTabLines lines on commas, trims
// quotes, drops empty fields, and joins the result.
func (e *Extractor) extractTabular(path string, size int64) (string, error) {
	sc, f, err := openCapped(path, size, e.tabularCap)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var fields []string
	lines := 0
	for sc.Scan() && lines < maxTabLines {
		lines++
		for _, cell := range strings.Split(sc.Text(), ",") {
			cell = strings.Trim(strings.TrimSpace(cell), `"`)
			if cell != "" {
				fields = append(fields, cell)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return "", errs.Wrap(errs.IO, "extract.extractTabular", err)
	}
	return strings.Join(fields, " "), nil
}

// extractPlaintext returns the file contents verbatim, capped at
// e.plaintextCap bytes. Covers txt, md, json, log, and the default case.
func (e *Extractor) extractPlaintext(path string, size int64) (string, error) {
	if size > e.plaintextCap {
		return "", errs.New(errs.OversizeLimit, "extract.extractPlaintext", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.IO, "extract.extractPlaintext", err)
	}
	return string(data), nil
}

// extractPDF loads the document (capped at e.pdfCap), concatenates per-page
// text, and trims the result to maxPDFChars.
func (e *Extractor) extractPDF(path string, size int64) (string, error) {
	if size > e.pdfCap {
		return "", errs.New(errs.OversizeLimit, "extract.extractPDF", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errs.Wrap(errs.IO, "extract.extractPDF", err)
	}
	defer f.Close()

	r, err := pdf.NewReader(f, size)
	if err != nil {
		return "", errs.Wrap(errs.IO, "extract.extractPDF", err)
	}

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}

	out := strings.TrimSpace(sb.String())
	if runes := []rune(out); len(runes) > maxPDFChars {
		out = string(runes[:maxPDFChars])
	}
	return out, nil
}
