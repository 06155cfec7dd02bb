// Package validation holds the pure input-checking and sanitization helpers
// used by every form-facing handler. Validation rejects malformed input with
// a full list of problems; sanitization defensively cleans whatever is about
// to be stored. Both layers run; neither trusts the other.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength   = 254
	maxFileNameBytes = 255
	defaultMaxLength = 1000
)

//nolint:gochecknoglobals // compiled once
var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)

	// Schemes that allow script injection through stored links.
	forbiddenSchemes = []string{"javascript:", "data:", "vbscript:", "file:"}

	fileNameSpecial = "<>:\"|?*"
)

// StringRule bounds one free-form string field.
type StringRule struct {
	Field     string
	MinLen    int
	MaxLen    int
	AllowHTML bool
}

// StringResult reports validation of a single string field. Errors holds
// every problem found, not just the first.
type StringResult struct {
	Valid  bool
	Errors []string
	Data   string
}

// ValidateString checks raw against rule and returns the sanitized value.
// Data is empty when invalid.
func ValidateString(raw string, rule StringRule) StringResult {
	if rule.MaxLen == 0 {
		rule.MaxLen = defaultMaxLength
	}

	cleaned := SanitizeString(raw, rule.AllowHTML)

	var errs []string
	if len(cleaned) < rule.MinLen {
		errs = append(errs, fmt.Sprintf("%s must be at least %d characters", rule.Field, rule.MinLen))
	}
	if len(cleaned) > rule.MaxLen {
		errs = append(errs, fmt.Sprintf("%s must be at most %d characters", rule.Field, rule.MaxLen))
	}

	if len(errs) > 0 {
		return StringResult{Valid: false, Errors: errs}
	}
	return StringResult{Valid: true, Data: cleaned}
}

// ValidateEmail checks format and length; Data is the normalized (trimmed,
// lowercased) address, empty when invalid.
func ValidateEmail(raw string) StringResult {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	var errs []string
	if normalized == "" {
		errs = append(errs, "email is required")
	}
	if len(normalized) > maxEmailLength {
		errs = append(errs, fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	}
	if normalized != "" && !emailPattern.MatchString(normalized) {
		errs = append(errs, "email format is invalid")
	}

	if len(errs) > 0 {
		return StringResult{Valid: false, Errors: errs}
	}
	return StringResult{Valid: true, Data: normalized}
}

// SanitizeString trims surrounding whitespace, strips control characters
// (keeping tabs and newlines) and, unless allowHTML is set, removes HTML tags.
func SanitizeString(raw string, allowHTML bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, raw)

	if !allowHTML {
		cleaned = htmlTag.ReplaceAllString(cleaned, "")
	}

	return strings.TrimSpace(cleaned)
}

// SanitizeURL accepts http://, https:// and root-relative URLs; anything
// carrying a script-capable scheme comes back empty.
func SanitizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lowered := strings.ToLower(trimmed)
	for _, scheme := range forbiddenSchemes {
		if strings.HasPrefix(lowered, scheme) {
			return ""
		}
	}

	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "/") && !strings.HasPrefix(trimmed, "//") {
		return trimmed
	}
	return ""
}

// SanitizeFileName strips traversal sequences, path separators, null bytes,
// control characters and filesystem-special characters, then truncates to
// 255 bytes while keeping the extension.
func SanitizeFileName(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == 0 {
			return -1
		}
		if r == '/' || r == '\\' {
			return -1
		}
		if strings.ContainsRune(fileNameSpecial, r) {
			return -1
		}
		return r
	}, raw)

	cleaned = strings.ReplaceAll(cleaned, "..", "")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > maxFileNameBytes {
		ext := filepath.Ext(cleaned)
		if len(ext) >= maxFileNameBytes {
			ext = ""
		}
		base := cleaned[:maxFileNameBytes-len(ext)]
		// The byte cut can land inside a multi-byte rune; drop the partial one.
		for len(base) > 0 {
			r, size := utf8.DecodeLastRuneInString(base)
			if r != utf8.RuneError || size != 1 {
				break
			}
			base = base[:len(base)-1]
		}
		cleaned = base + ext
	}

	return cleaned
}

// ClampInt parses raw, falling back to def on garbage, and clamps into
// [min, max]. A NaN or unparseable value can never propagate to storage.
func ClampInt(raw string, def, min, max int) int {
	n := def
	if raw != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			n = parsed
		}
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n
}
