package security

import (
	"fmt"
	"regexp"
)

// SearchSanitizer validates free-text search queries before they enter
// the filter state
type SearchSanitizer struct {
	// 危険な入力のパターン
	dangerousPatterns []*regexp.Regexp
}

// NewSearchSanitizer creates a new search sanitizer
func NewSearchSanitizer() *SearchSanitizer {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)(^|\s)(union|select|insert|update|delete|drop|create|alter|exec|execute|declare|truncate)\s`),
		regexp.MustCompile(`(?i)(script|javascript|vbscript|onload|onerror|eval)`),
		regexp.MustCompile(`(--|/\*|\*/|;)`),
	}

	return &SearchSanitizer{
		dangerousPatterns: patterns,
	}
}

// ValidateSearchQuery validates a search query
func (s *SearchSanitizer) ValidateSearchQuery(query string) error {
	if query == "" {
		return nil
	}

	// 長さチェック
	if len(query) > 500 {
		return fmt.Errorf("search query too long (max: 500 characters)")
	}

	// 危険なパターンをチェック
	for _, pattern := range s.dangerousPatterns {
		if pattern.MatchString(query) {
			return fmt.Errorf("potentially dangerous pattern detected in search query")
		}
	}

	return nil
}
