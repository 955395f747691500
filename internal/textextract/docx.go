package textextract

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
)

var (
	wordTextRun = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
	anyMarkup   = regexp.MustCompile(`<[^>]+>`)
)

// extractDocx reads Word text runs. A DOCX is a zip of XML parts, so the
// happy path opens the archive and scans word/document.xml; byte streams that
// are not valid zips are scanned directly for <w:t> elements, and inputs with
// no text runs at all fall back to the readable-ASCII heuristic.
func extractDocx(data []byte) string {
	if doc, ok := readDocumentXML(data); ok {
		if text := collectTextRuns(doc); text != "" {
			return text
		}
	}

	if text := collectTextRuns(decodeLatin1(data)); text != "" {
		return text
	}

	return extractReadableRuns(data)
}

// readDocumentXML pulls word/document.xml out of a DOCX zip archive.
func readDocumentXML(data []byte) (string, bool) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", false
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", false
		}
		return string(content), true
	}

	return "", false
}

// collectTextRuns concatenates the inner text of every <w:t> element,
// stripping any nested markup.
func collectTextRuns(doc string) string {
	matches := wordTextRun.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, anyMarkup.ReplaceAllString(m[1], ""))
	}
	return collapseWhitespace(strings.Join(parts, " "))
}
