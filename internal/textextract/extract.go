// Package textextract converts uploaded resume files (PDF, DOCX, plain text)
// into best-effort plain text using byte-level heuristics. It performs no
// network I/O and has no side effects.
package textextract

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the minimum trimmed length below which an extraction is
// considered unreadable rather than merely short.
const MinTextLength = 20

var whitespaceRun = regexp.MustCompile(`\s+`)

// Extract converts the raw bytes of an uploaded file into plain text. The
// format is selected by filename extension. Results trimming to fewer than
// MinTextLength characters fail with ExtractionFailedError.
func Extract(data []byte, fileName string) (string, error) {
	var text string

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text = extractPDF(data)
	case ".docx", ".doc":
		text = extractDocx(data)
	case ".txt":
		text = decodeText(data)
	default:
		return "", &UnsupportedFormatError{FileName: fileName}
	}

	if len(strings.TrimSpace(text)) < MinTextLength {
		return "", &ExtractionFailedError{
			FileName: fileName,
			Message:  "document yielded no readable text; try a different file format (.txt or .docx)",
		}
	}

	return text, nil
}

// decodeText decodes bytes as UTF-8 when valid, otherwise falls back to a
// permissive Latin-1 interpretation so undecodable bytes never fail a .txt
// upload.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return decodeLatin1(data)
}

// decodeLatin1 maps every byte to the code point of the same value.
func decodeLatin1(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// collapseWhitespace squashes whitespace runs into single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

var (
	readableRun    = regexp.MustCompile(`[\x20-\x7E]{4,}`)
	structuralOnly = regexp.MustCompile(`^[%/\[\]{}()<>]+$`)
)

// extractReadableRuns is the last-resort path for both PDF and DOCX inputs:
// pull maximal runs of printable ASCII and drop runs that are purely
// format-structure noise.
func extractReadableRuns(data []byte) string {
	runs := readableRun.FindAllString(decodeLatin1(data), -1)
	kept := make([]string, 0, len(runs))
	for _, run := range runs {
		if structuralOnly.MatchString(run) {
			continue
		}
		kept = append(kept, run)
	}
	return collapseWhitespace(strings.Join(kept, " "))
}
