package textextract

import "fmt"

// UnsupportedFormatError indicates the file extension is not one the
// extractor knows how to read.
type UnsupportedFormatError struct {
	FileName string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s (expected .pdf, .docx, .doc or .txt)", e.FileName)
}

// ExtractionFailedError indicates the file was a known format but no usable
// text could be recovered from it.
type ExtractionFailedError struct {
	FileName string
	Message  string
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("could not extract text from %s: %s", e.FileName, e.Message)
}
