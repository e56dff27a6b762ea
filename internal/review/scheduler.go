// Package review orders learnable items (flashcards, quiz questions,
// exercise questions) by how much a user needs to see them again.
//
// A single weight model drives two selection policies: a weighted random
// draw for "start deck/quiz" flows, and a deterministic priority sort for
// session-based review. Items the user keeps missing, and items not seen
// for a while, surface first; mastered items recede but never disappear.
package review

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Progress is the per-user, per-item answer history the weight model
// consumes. The zero value (never answered, last reviewed at the epoch)
// is maximally eligible for review.
type Progress struct {
	TimesCorrect   int
	TimesIncorrect int
	LastReviewedAt time.Time
}

// Mode selects the ordering policy.
type Mode int

const (
	// Weighted draws items randomly without replacement, biased by weight.
	// Two calls with identical inputs may produce different orders.
	Weighted Mode = iota
	// Sorted orders strictly by incorrect count desc, correct count asc,
	// last reviewed asc. Deterministic; ties keep caller order.
	Sorted
)

// Sentinel errors. Check with errors.Is.
var (
	ErrNoItems       = errors.New("review: no items to schedule")
	ErrInvalidItem   = errors.New("review: item id must be non-zero")
	ErrDuplicateItem = errors.New("review: duplicate item id")
)

// Weight computes the selection weight for one item.
//
//	daysSinceReview = (now - lastReviewedAt) in days
//	recencyBonus    = min(daysSinceReview / 7, 2)
//	weight          = max(1, 1 + 3*incorrect - 0.5*correct + recencyBonus)
//
// Incorrect answers dominate so missed material resurfaces quickly;
// correct answers lightly deprioritize; the capped recency bonus keeps
// long-unseen items from starving; the floor of 1 keeps every item
// selectable.
func Weight(p Progress, now time.Time) float64 {
	days := now.Sub(p.LastReviewedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	recencyBonus := math.Min(days/7, 2)
	w := 1 + 3*float64(p.TimesIncorrect) - 0.5*float64(p.TimesCorrect) + recencyBonus
	return math.Max(w, 1)
}

// Scheduler produces review orderings. It owns the random source used by
// Weighted mode, so orderings are reproducible with a seeded scheduler.
// Safe for concurrent use: feature services share one scheduler across
// request goroutines, and *rand.Rand is not.
type Scheduler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler creates a time-seeded scheduler.
func NewScheduler() *Scheduler {
	return NewSeededScheduler(time.Now().UnixNano())
}

// NewSeededScheduler creates a scheduler with a fixed seed. Intended for
// tests that need reproducible Weighted orderings.
func NewSeededScheduler(seed int64) *Scheduler {
	return &Scheduler{rng: rand.New(rand.NewSource(seed))}
}

// Order returns a permutation of ids biased (Weighted) or sorted (Sorted)
// toward items the user struggles with or has not seen recently. Items
// absent from progress are treated as never reviewed. The input slice is
// not modified.
func (s *Scheduler) Order(mode Mode, ids []uint, progress map[uint]Progress, now time.Time) ([]uint, error) {
	if len(ids) == 0 {
		return nil, ErrNoItems
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, ErrInvalidItem
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateItem, id)
		}
		seen[id] = struct{}{}
	}

	switch mode {
	case Weighted:
		return s.weightedOrder(ids, progress, now), nil
	case Sorted:
		return sortedOrder(ids, progress), nil
	default:
		return nil, fmt.Errorf("review: unknown mode %d", mode)
	}
}

// weightedOrder performs weighted sampling without replacement: each round
// draws uniformly in [0, totalWeight) and walks the remaining pool
// accumulating weights until the draw is covered.
func (s *Scheduler) weightedOrder(ids []uint, progress map[uint]Progress, now time.Time) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := make([]uint, len(ids))
	copy(pool, ids)

	weights := make(map[uint]float64, len(ids))
	for _, id := range ids {
		weights[id] = Weight(progress[id], now)
	}

	out := make([]uint, 0, len(ids))
	for len(pool) > 0 {
		total := 0.0
		for _, id := range pool {
			total += weights[id]
		}

		draw := s.rng.Float64() * total
		picked := len(pool) - 1
		cum := 0.0
		for i, id := range pool {
			cum += weights[id]
			if draw < cum {
				picked = i
				break
			}
		}

		out = append(out, pool[picked])
		pool = append(pool[:picked], pool[picked+1:]...)
	}
	return out
}

// sortedOrder applies the deterministic priority sort. The sort is stable,
// so fully tied items keep the caller's display order.
func sortedOrder(ids []uint, progress map[uint]Progress) []uint {
	out := make([]uint, len(ids))
	copy(out, ids)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := progress[out[i]], progress[out[j]]
		if pi.TimesIncorrect != pj.TimesIncorrect {
			return pi.TimesIncorrect > pj.TimesIncorrect
		}
		if pi.TimesCorrect != pj.TimesCorrect {
			return pi.TimesCorrect < pj.TimesCorrect
		}
		return pi.LastReviewedAt.Before(pj.LastReviewedAt)
	})
	return out
}
