package rebus

import "github.com/vytor/rebux/internal/models"

const (
	// PointsPerLevel is the score reward for a correct guess.
	PointsPerLevel = 100
	// HintThreshold is the failed-attempt count at which the hint is shown.
	HintThreshold = 3

	IncorrectMessage = "Incorrect! Try again."
	WinMessage       = "Congratulations! You have beaten all available levels of Rebux!"
)

// Outcome is what the caller should render after a transition.
type Outcome struct {
	// Won means the session's level has no puzzle. The session is left untouched.
	Won bool
	// Correct is set when the guess matched and the session advanced.
	Correct bool
	// ShowHint is a presentation flag only.
	ShowHint bool
	Message  string
}

// View describes the current state without a guess.
func View(s models.GameSession, puzzle *models.PuzzleLevel) Outcome {
	if puzzle == nil {
		return Outcome{Won: true}
	}
	return Outcome{ShowHint: s.FailedAttempts >= HintThreshold}
}

// Advance applies one guess to the session. puzzle must be the level matching
// s.CurrentLevel, or nil when none exists.
func Advance(s models.GameSession, puzzle *models.PuzzleLevel, guess string) (models.GameSession, Outcome) {
	if puzzle == nil {
		return s, Outcome{Won: true}
	}

	if Matches(guess, puzzle.CorrectAnswer) {
		s.CurrentLevel++
		s.Score += PointsPerLevel
		s.FailedAttempts = 0
		return s, Outcome{Correct: true}
	}

	s.FailedAttempts++
	return s, Outcome{
		ShowHint: s.FailedAttempts >= HintThreshold,
		Message:  IncorrectMessage,
	}
}
