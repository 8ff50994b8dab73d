package models

import (
	"time"

	"github.com/cs-practicals/algosim/internal/games"
)

// Practical is a catalogue entry: one simulator with a fixed setup.
type Practical struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Kind        games.Kind `json:"kind"`
	Description string     `json:"description"`
	Level       int        `json:"level"`
}

// Result is the persisted completion record of one round
type Result struct {
	ID          string     `json:"id"`
	PracticalID string     `json:"practical_id"`
	RoundID     string     `json:"round_id"`
	Kind        games.Kind `json:"kind"`
	Score       int        `json:"score"`
	Moves       int        `json:"moves"`
	Level       int        `json:"level"`
	ElapsedMs   int64      `json:"elapsed_ms"`
	Seed        int64      `json:"seed"`
	CompletedAt time.Time  `json:"completed_at"`
}

// StartRoundRequest represents the request to mount a round.
// Zero values keep the practical's own setup.
type StartRoundRequest struct {
	Seed  *int64 `json:"seed,omitempty"`
	Level int    `json:"level,omitempty"`
}

// RoundResponse is a round snapshot as rendered by clients
type RoundResponse struct {
	ID          string    `json:"id"`
	PracticalID string    `json:"practical_id"`
	Seed        int64     `json:"seed"`
	StartedAt   time.Time `json:"started_at"`
	games.View
}

// Event is pushed to round subscribers
type Event struct {
	Type    string    `json:"type"` // "subscribed", "notice", "complete"
	RoundID string    `json:"round_id"`
	Kind    string    `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
	Score   *int      `json:"score,omitempty"`
	At      time.Time `json:"at"`
}

// Event types
const (
	EventSubscribed = "subscribed"
	EventNotice     = "notice"
	EventComplete   = "complete"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
