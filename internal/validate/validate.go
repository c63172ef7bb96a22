// Package validate provides input validation for hierarchy entities,
// tags and links. The service layer validates at its entry points and the
// store validates again for defence-in-depth (protects against direct
// store access).
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// Title validates and normalises an entity title. Leading and trailing
// whitespace is trimmed. maxLen of 0 disables the length check.
func Title(title string, maxLen int) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", fmt.Errorf("%w: empty title", ErrInvalidTitle)
	}
	if strings.ContainsAny(t, "\n\r") {
		return "", fmt.Errorf("%w: title contains newline", ErrInvalidTitle)
	}
	if maxLen > 0 && len(t) > maxLen {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTitleTooLong, len(t), maxLen)
	}
	return t, nil
}

// Content validates page content size. maxLen of 0 disables the check.
func Content(content string, maxLen int64) error {
	if maxLen > 0 && int64(len(content)) > maxLen {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrContentTooLarge, len(content), maxLen)
	}
	return nil
}

// Color validates an optional display colour. Empty is allowed (callers
// apply their default); otherwise the value must be #RGB or #RRGGBB hex.
func Color(c string) (string, error) {
	if c == "" {
		return "", nil
	}
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return "", fmt.Errorf("%w: %q (want #RGB or #RRGGBB)", ErrInvalidColor, c)
	}
	for _, r := range c[1:] {
		if !isHex(r) {
			return "", fmt.Errorf("%w: %q (want #RGB or #RRGGBB)", ErrInvalidColor, c)
		}
	}
	return strings.ToUpper(c), nil
}

func isHex(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Tag validates and normalises a single tag. Tags are lowercased and must
// contain no whitespace or commas (commas are the CLI list separator).
func Tag(tag string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return "", fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	if strings.ContainsAny(t, " \t\n\r,") {
		return "", fmt.Errorf("%w: %q contains whitespace or comma", ErrInvalidTag, tag)
	}
	return t, nil
}

// Tags validates a tag set, dropping duplicates while preserving order.
func Tags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t, err := Tag(tag)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// Link validates link endpoints.
//
// Validation rules:
//   - Both page ids must be non-empty
//   - Self-referential links rejected (source == target creates
//     meaningless cycles and complicates traversal)
//
// Endpoint existence is checked by the store, which can resolve ids.
func Link(sourceID, targetID string) error {
	if sourceID == "" {
		return fmt.Errorf("%w: empty source page id", ErrInvalidLink)
	}
	if targetID == "" {
		return fmt.Errorf("%w: empty target page id", ErrInvalidLink)
	}
	if sourceID == targetID {
		return fmt.Errorf("%w: self-referential link", ErrInvalidLink)
	}
	return nil
}
