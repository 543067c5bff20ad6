package artifact

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// DefaultMinContentLength is the minimum number of characters a page must
// yield to be worth saving
const DefaultMinContentLength = 100

// ValidationError reports extracted content that was too short to keep
type ValidationError struct {
	Length int
	Min    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content too short: %d characters (need more than %d)", e.Length, e.Min)
}

// Validator applies the minimum-length policy to extracted text
type Validator struct {
	MinLength int
}

// NewValidator creates a Validator. A negative minLength is treated as 0.
func NewValidator(minLength int) Validator {
	if minLength < 0 {
		minLength = 0
	}
	return Validator{MinLength: minLength}
}

// Length returns the number of characters counted by Validate
func (v Validator) Length(content string) int {
	return utf8.RuneCountInString(strings.TrimSpace(content))
}

// Validate reports whether the trimmed content is strictly longer than MinLength
func (v Validator) Validate(content string) bool {
	return v.Check(content) == nil
}

// Check is Validate returning a *ValidationError on failure
func (v Validator) Check(content string) error {
	length := v.Length(content)
	if length > v.MinLength {
		return nil
	}

	log.Warn().
		Int("length", length).
		Int("min_length", v.MinLength).
		Msg("Content too short")

	return &ValidationError{Length: length, Min: v.MinLength}
}
