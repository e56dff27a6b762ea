// Package grading scores free-text answers against a reference answer.
//
// Grading is fuzzy: answers are normalized and compared by Levenshtein
// edit distance, so small typos still count as correct while genuinely
// different answers do not.
package grading

import (
	"strings"
)

// CorrectThreshold is the minimum similarity for an answer to be graded
// correct. Applied uniformly to flashcards and anatomy quizzes.
const CorrectThreshold = 0.9

// Normalize lowercases, trims, and collapses internal whitespace runs to
// single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Similarity returns a score in [0, 1]: 1.0 for normalized-equal strings,
// 0.0 when either normalizes to empty, otherwise
// 1 - distance/max(len(a), len(b)) over the normalized forms.
//
// Distance operates on runes; combining characters and other multi-rune
// grapheme clusters are not special-cased.
func Similarity(a, b string) float64 {
	an, bn := Normalize(a), Normalize(b)
	if an == bn {
		return 1.0
	}
	if an == "" || bn == "" {
		return 0.0
	}

	ra, rb := []rune(an), []rune(bn)
	dist := levenshtein(ra, rb)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

// IsCorrect reports whether a user answer is close enough to the
// reference answer to be graded correct.
func IsCorrect(userAnswer, referenceAnswer string) bool {
	return Similarity(userAnswer, referenceAnswer) >= CorrectThreshold
}

// levenshtein computes edit distance with unit insert/delete/substitute
// costs using the two-row dynamic programming form.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // delete
				curr[j-1]+1,    // insert
				prev[j-1]+cost, // substitute
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
