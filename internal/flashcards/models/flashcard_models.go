package models

import (
	"strconv"
	"strings"
	"time"
)

// Deck groups flashcards under a topic, e.g. "Cardiac anatomy".
type Deck struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Cards       []Card    `json:"cards,omitempty"`
}

// Card is one flashcard: prompt on the front, reference answer on the
// back. DisplayOrder is the stable fallback ordering within the deck.
type Card struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DeckID       uint      `gorm:"not null;index" json:"deck_id"`
	Prompt       string    `gorm:"not null" json:"prompt"`
	Answer       string    `gorm:"not null" json:"answer"`
	Explanation  string    `json:"explanation,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CardProgress is the per-user, per-card answer history. Exactly one row
// per (user, card); counters only ever increment.
type CardProgress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_card_progress_user_card" json:"user_id"`
	CardID         uint      `gorm:"not null;uniqueIndex:idx_card_progress_user_card" json:"card_id"`
	TimesCorrect   int       `json:"times_correct"`
	TimesIncorrect int       `json:"times_incorrect"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// StudySession is a deterministic review session over one deck: the card
// order is fixed at session start and walked front to back.
type StudySession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Token       string     `gorm:"unique;not null" json:"token"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	DeckID      uint       `gorm:"not null" json:"deck_id"`
	CardOrder   string     `gorm:"not null" json:"-"` // comma-joined card ids
	Position    int        `json:"position"`
	Correct     int        `json:"correct"`
	Incorrect   int        `json:"incorrect"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EncodeCardOrder serializes a card id sequence for storage.
func EncodeCardOrder(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// DecodeCardOrder parses a stored card order. Malformed entries are
// skipped; sessions are short-lived and written only by EncodeCardOrder.
func DecodeCardOrder(s string) []uint {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(v))
	}
	return ids
}

// Request/Response Models

type CreateDeckRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CreateCardRequest struct {
	Prompt       string `json:"prompt" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
	Explanation  string `json:"explanation"`
	DisplayOrder int    `json:"display_order"`
}

type SubmitAnswerRequest struct {
	CardID       uint   `json:"card_id" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
	SessionToken string `json:"session_token"`
}

type SubmitAnswerResponse struct {
	IsCorrect     bool    `json:"is_correct"`
	Similarity    float64 `json:"similarity"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation,omitempty"`
	SessionDone   bool    `json:"session_done,omitempty"`
}

type StartDeckResponse struct {
	DeckID uint   `json:"deck_id"`
	Title  string `json:"title"`
	Cards  []Card `json:"cards"`
}

type StartSessionResponse struct {
	Token      string `json:"token"`
	DeckID     uint   `json:"deck_id"`
	TotalCards int    `json:"total_cards"`
	Card       *Card  `json:"card"`
}

type SessionStateResponse struct {
	Token     string `json:"token"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Done      bool   `json:"done"`
	Card      *Card  `json:"card,omitempty"`
}

type ImportDeckResponse struct {
	DeckID        uint `json:"deck_id"`
	CardsImported int  `json:"cards_imported"`
	RowsSkipped   int  `json:"rows_skipped"`
}
