package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases", "ATRIUM", "atrium"},
		{"trims", "  femur  ", "femur"},
		{"collapses runs", "left   ventricle", "left ventricle"},
		{"tabs and newlines", "left\t\nventricle", "left ventricle"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.in))
		})
	}
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"x", "atrium", "left ventricle", "Paris"} {
		assert.Equal(t, 1.0, Similarity(s, s))
	}
}

func TestSimilarityNormalizedEquality(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Paris ", " paris"))
	assert.Equal(t, 1.0, Similarity("LEFT  VENTRICLE", "left ventricle"))
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "anything"))
	assert.Equal(t, 0.0, Similarity("anything", "   "))
}

func TestSimilarityDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		// 1 insertion over max length 7
		{"one insertion", "atrium", "atriums", 1.0 - 1.0/7.0},
		// 1 substitution over length 5
		{"one substitution", "femur", "femir", 1.0 - 1.0/5.0},
		// totally different
		{"disjoint", "ab", "xy", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	assert.InDelta(t, Similarity("humerus", "humors"), Similarity("humors", "humerus"), 1e-9)
}

func TestIsCorrectThreshold(t *testing.T) {
	// "atrium" vs "atriums" ≈ 0.857 sits below the 0.9 threshold.
	assert.False(t, IsCorrect("atriums", "atrium"))

	// A single dropped letter in a longer answer passes.
	assert.True(t, IsCorrect("hipocampus", "hippocampus"))

	// Exact and case-insensitive matches pass.
	assert.True(t, IsCorrect("Aorta", "aorta"))
}

func TestLevenshteinUnicode(t *testing.T) {
	// Distance counts runes, not bytes: the combining accent is one edit
	// over the longer rune length of 6.
	assert.InDelta(t, 1.0-1.0/6.0, Similarity("cóeur", "coeur"), 1e-9)
}
