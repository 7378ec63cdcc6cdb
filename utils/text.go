package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// DeriveTitle builds a display title from note content.
// Hashtags are removed and the first line is cut to TitleMaxLength characters.
// When the whole cleaned content is longer than TitleMaxLength, the title ends
// at the last space past TitleMinWordBreak followed by TitleEllipsis.
func DeriveTitle(content string) string {
	clean := strings.TrimSpace(hashtagPattern.ReplaceAllString(content, ""))
	firstLine, _, _ := strings.Cut(clean, "\n")
	firstLine = strings.TrimRight(firstLine, "\r")

	runes := []rune(firstLine)
	if len(runes) > TitleMaxLength {
		runes = runes[:TitleMaxLength]
	}
	title := string(runes)
	if utf8.RuneCountInString(clean) > TitleMaxLength {
		if lastSpace := lastSpaceIndex(runes); lastSpace > TitleMinWordBreak {
			title = string(runes[:lastSpace]) + TitleEllipsis
		}
	}

	if strings.TrimSpace(title) == "" {
		return UntitledNote
	}
	return title
}

// ExtractHashtags returns the lower-cased hashtags of content in order of first
// occurrence, without duplicates. The result is never nil.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)

	tags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

// NormalizeTagName maps user input such as "#Work" onto the stored tag name "work"
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}

func lastSpaceIndex(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
