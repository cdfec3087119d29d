// Package sanitize neutralizes user supplied text before it is persisted.
package sanitize

import (
	"html"

	"postboard/internal/domain/service"
)

type htmlSanitizer struct{}

// NewHTMLSanitizer returns a sanitizer that escapes the HTML metacharacters < > & ' ".
func NewHTMLSanitizer() service.Sanitizer {
	return htmlSanitizer{}
}

func (htmlSanitizer) Sanitize(text string) string {
	return html.EscapeString(text)
}
