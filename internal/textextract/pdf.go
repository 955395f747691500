package textextract

import (
	"regexp"
	"strings"
)

// PDF content streams mark text with BT ... ET blocks; inside them, literal
// strings are shown by the Tj operator and by TJ arrays (which interleave
// kerning numbers we ignore).
var (
	pdfTextBlock = regexp.MustCompile(`(?s)BT\s(.*?)ET`)
	pdfLiteral   = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
	pdfTj        = regexp.MustCompile(`\((?:\\.|[^\\()])*\)\s*Tj`)
	pdfTJArray   = regexp.MustCompile(`\[([^\]]*)\]\s*TJ`)
)

// extractPDF scans the byte stream for text-showing operators. When no block
// yields any literal text, it falls back to the readable-ASCII heuristic.
func extractPDF(data []byte) string {
	raw := decodeLatin1(data)

	var collected []string
	for _, block := range pdfTextBlock.FindAllStringSubmatch(raw, -1) {
		body := block[1]

		for _, tj := range pdfTj.FindAllString(body, -1) {
			if m := pdfLiteral.FindStringSubmatch(tj); m != nil {
				collected = append(collected, unescapePDF(m[1]))
			}
		}

		for _, arr := range pdfTJArray.FindAllStringSubmatch(body, -1) {
			for _, lit := range pdfLiteral.FindAllStringSubmatch(arr[1], -1) {
				collected = append(collected, unescapePDF(lit[1]))
			}
		}
	}

	if len(collected) == 0 {
		return extractReadableRuns(data)
	}

	return collapseWhitespace(strings.Join(collected, " "))
}

// unescapePDF resolves the escape sequences that appear inside PDF literal
// strings: escaped parentheses and the \n / \r shorthands.
func unescapePDF(s string) string {
	r := strings.NewReplacer(
		`\n`, "\n",
		`\r`, "",
		`\(`, "(",
		`\)`, ")",
	)
	return r.Replace(s)
}
