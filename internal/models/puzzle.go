package models

import "time"

const (
	DefaultCategory = "General"
	DefaultHint     = "Keep thinking!"

	// MaxAnswerLength is the answer column width, in runes.
	MaxAnswerLength = 100
)

// PuzzleLevel is one rebus puzzle. Levels are created by the content generator
// and never updated or deleted.
type PuzzleLevel struct {
	ID            int64     `json:"id"`
	LevelNumber   int       `json:"level_number"`
	Image1URL     string    `json:"image_1_url"`
	Image2URL     string    `json:"image_2_url"`
	Image3URL     *string   `json:"image_3_url,omitempty"`
	Image4URL     *string   `json:"image_4_url,omitempty"`
	CorrectAnswer string    `json:"-"`
	Category      string    `json:"category"`
	Hint          string    `json:"hint"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPuzzleLevel is the insert payload for a generated level. The level number
// is assigned by the store.
type NewPuzzleLevel struct {
	Image1URL     string
	Image2URL     string
	CorrectAnswer string
	Category      string
	Hint          string
}

// PuzzleFilter drives the admin listing.
type PuzzleFilter struct {
	AnswerContains string
	Limit          int
	Offset         int
}

// PuzzleSummary is the admin view of a level, answer included.
type PuzzleSummary struct {
	LevelNumber   int    `json:"level_number"`
	CorrectAnswer string `json:"correct_answer"`
	Category      string `json:"category"`
	Hint          string `json:"hint"`
	Image1URL     string `json:"image_1_url"`
	Image2URL     string `json:"image_2_url"`
}
