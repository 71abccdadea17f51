package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// Validation limits for category and post fields.
const (
	maxNameLen        = 255
	maxTitleLen       = 255
	maxDescriptionLen = 10_000
	maxExcerptLen     = 2_000
	maxContentLen     = 500_000

	// maxSlugBaseLen leaves room for a "-N" suffix in a VARCHAR(255) column.
	maxSlugBaseLen = 240

	defaultListLimit = 10
	maxListLimit     = 100
)

// validateName checks a category name and returns it trimmed, together with
// the base slug derived from it.
func validateName(name string) (string, string, *Error) {
	return validateLabel("name", "Name", name, maxNameLen)
}

// validateTitle checks a post title and returns it trimmed, together with
// the base slug derived from it.
func validateTitle(title string) (string, string, *Error) {
	return validateLabel("title", "Title", title, maxTitleLen)
}

func validateLabel(field, label, value string, maxLen int) (string, string, *Error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", validationError(field, label+" is required")
	}
	if utf8.RuneCountInString(value) > maxLen {
		return "", "", validationError(field, fmt.Sprintf("%s is too long (max %d characters)", label, maxLen))
	}
	base := slug.Generate(value)
	if len(base) > maxSlugBaseLen {
		base = strings.TrimRight(base[:maxSlugBaseLen], slug.Separator)
	}
	if base == "" {
		return "", "", validationError(field, label+" must contain at least one letter or digit")
	}
	return value, base, nil
}

// validateContent checks a post body. The body is stored as given.
func validateContent(content string) *Error {
	if strings.TrimSpace(content) == "" {
		return validationError("content", "Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return validationError("content", "Content is too long (max 500,000 characters)")
	}
	return nil
}

// optionalText normalizes an optional text field: nil and blank values
// become nil, anything else must fit in maxLen runes.
func optionalText(field, label string, value *string, maxLen int) (*string, *Error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return nil, validationError(field, fmt.Sprintf("%s is too long (max %d characters)", label, maxLen))
	}
	return &trimmed, nil
}

func validateDescription(description *string) (*string, *Error) {
	return optionalText("description", "Description", description, maxDescriptionLen)
}

func validateExcerpt(excerpt *string) (*string, *Error) {
	return optionalText("excerpt", "Excerpt", excerpt, maxExcerptLen)
}

func validateStatus(status models.PostStatus) *Error {
	if !status.Valid() {
		return validationError("status", `Status must be "draft" or "published"`)
	}
	return nil
}

// uniqueIDs drops duplicate IDs, keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
