package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "google llc", Normalize("  Google   LLC "))
	assert.Equal(t, "", Normalize("   "))
}

func TestEitherContains(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Google", "Google LLC", true},
		{"google llc", "Google", true},
		{"Software Engineer", "software engineer", true},
		{"Senior  Software Engineer", "software engineer", true},
		{"Google", "Amazon", false},
		{"", "Google", false},
		{"", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EitherContains(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
