package validation_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/portfolio-backend/internal/validation"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		rule      validation.StringRule
		wantValid bool
		wantData  string
	}{
		{
			name:      "valid trimmed",
			raw:       "  hello world  ",
			rule:      validation.StringRule{Field: "message", MinLen: 5, MaxLen: 50},
			wantValid: true,
			wantData:  "hello world",
		},
		{
			name:      "too short",
			raw:       "hi",
			rule:      validation.StringRule{Field: "message", MinLen: 10, MaxLen: 50},
			wantValid: false,
		},
		{
			name:      "too long",
			raw:       strings.Repeat("a", 51),
			rule:      validation.StringRule{Field: "message", MinLen: 1, MaxLen: 50},
			wantValid: false,
		},
		{
			name:      "html stripped",
			raw:       "hello <script>alert(1)</script>world",
			rule:      validation.StringRule{Field: "bio", MinLen: 1, MaxLen: 50},
			wantValid: true,
			wantData:  "hello alert(1)world",
		},
		{
			name:      "control characters stripped",
			raw:       "hel\x00lo\x07 there",
			rule:      validation.StringRule{Field: "name", MinLen: 1, MaxLen: 50},
			wantValid: true,
			wantData:  "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.ValidateString(tt.raw, tt.rule)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.Empty(t, got.Errors)
				assert.Equal(t, tt.wantData, got.Data)
			} else {
				assert.NotEmpty(t, got.Errors)
				assert.Empty(t, got.Data)
			}
		})
	}
}

func TestValidateStringCollectsAllErrors(t *testing.T) {
	// A rule that cannot be satisfied reports every violated bound at once.
	got := validation.ValidateString("abc", validation.StringRule{Field: "x", MinLen: 5, MaxLen: 2})

	require.False(t, got.Valid)
	assert.Len(t, got.Errors, 2)
}

func TestValidateEmail(t *testing.T) {
	t.Run("valid normalized", func(t *testing.T) {
		got := validation.ValidateEmail("  Alice@Example.COM ")
		require.True(t, got.Valid)
		assert.Equal(t, "alice@example.com", got.Data)
	})

	t.Run("not an email", func(t *testing.T) {
		got := validation.ValidateEmail("not-an-email")
		require.False(t, got.Valid)
		assert.NotEmpty(t, got.Errors)
		assert.Empty(t, got.Data)
	})

	t.Run("too long", func(t *testing.T) {
		got := validation.ValidateEmail(strings.Repeat("a", 250) + "@example.com")
		require.False(t, got.Valid)
	})

	t.Run("empty", func(t *testing.T) {
		got := validation.ValidateEmail("")
		require.False(t, got.Valid)
	})
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/page", "https://example.com/page"},
		{"http://example.com", "http://example.com"},
		{"/files/resume.pdf", "/files/resume.pdf"},
		{"javascript:alert(1)", ""},
		{"JavaScript:alert(1)", ""},
		{"data:text/html;base64,PHNjcmlwdD4=", ""},
		{"vbscript:msgbox(1)", ""},
		{"file:///etc/passwd", ""},
		{"//evil.com/path", ""},
		{"ftp://example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.SanitizeURL(tt.raw))
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	t.Run("path traversal removed", func(t *testing.T) {
		got := validation.SanitizeFileName("../../etc/passwd")
		assert.NotContains(t, got, "..")
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, "\\")
	})

	t.Run("null bytes and specials removed", func(t *testing.T) {
		got := validation.SanitizeFileName("re\x00port<1>:\"final\"|?.pdf")
		assert.Equal(t, "report1final.pdf", got)
	})

	t.Run("long name truncated preserving extension", func(t *testing.T) {
		got := validation.SanitizeFileName(strings.Repeat("a", 300) + ".pdf")
		assert.LessOrEqual(t, len(got), 255)
		assert.True(t, strings.HasSuffix(got, ".pdf"))
	})

	t.Run("truncation keeps multi-byte runes whole", func(t *testing.T) {
		// 130 two-byte runes put the byte cut in the middle of one.
		got := validation.SanitizeFileName(strings.Repeat("ä", 130) + ".pdf")
		assert.LessOrEqual(t, len(got), 255)
		assert.True(t, strings.HasSuffix(got, ".pdf"))
		assert.True(t, utf8.ValidString(got))
	})

	t.Run("normal name untouched", func(t *testing.T) {
		assert.Equal(t, "photo.jpg", validation.SanitizeFileName("photo.jpg"))
	})
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 42, validation.ClampInt("42", 0, 0, 100))
	assert.Equal(t, 10, validation.ClampInt("garbage", 10, 0, 100))
	assert.Equal(t, 10, validation.ClampInt("", 10, 0, 100))
	assert.Equal(t, 100, validation.ClampInt("9999", 0, 0, 100))
	assert.Equal(t, 0, validation.ClampInt("-5", 10, 0, 100))
}
