package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "my-first-post", false},
		{"Valid With Numbers", "go-1-21-released", false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 81), true},
		{"Uppercase", "My-Post", true},
		{"Illegal Chars", "my_post", true},
		{"Starts Hyphen", "-post", true},
		{"Ends Hyphen", "post-", true},
		{"Reserved", "admin", true},
		{"Reserved Route", "compose", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
