package models

// GameSession is the per-player progress keyed by an opaque client token.
type GameSession struct {
	CurrentLevel   int `json:"current_level"`
	Score          int `json:"score"`
	FailedAttempts int `json:"failed_attempts"`
}

// NewGameSession returns the initial (1, 0, 0) state.
func NewGameSession() GameSession {
	return GameSession{CurrentLevel: 1}
}
