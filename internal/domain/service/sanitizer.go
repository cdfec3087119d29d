package service

// Sanitizer neutralizes free text before it is stored.
type Sanitizer interface {
	Sanitize(text string) string
}
