package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NoTextFallback is returned when no page of a PDF yields any text.
const NoTextFallback = "No text found in PDF."

// ExtractPDF concatenates the plain text of every page in page order.
// Pages without text, or whose text cannot be decoded, are skipped.
func ExtractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}

		textBuilder.WriteString(text)
	}

	if textBuilder.Len() == 0 {
		return NoTextFallback, nil
	}

	return textBuilder.String(), nil
}
