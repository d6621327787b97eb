package domain

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags scans note content for hashtag tokens and returns the
// lowercase tag names, deduplicated, in order of first appearance.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}
