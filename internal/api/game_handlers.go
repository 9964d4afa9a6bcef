package api

import (
	"net/http"

	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/rebus"
	"github.com/vytor/rebux/internal/services"
)

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering play page")

	state, err := s.GameService.State(r.Context(), sessionTokenFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if state.Outcome.Won {
		http.Redirect(w, r, "/win", http.StatusSeeOther)
		return
	}
	s.renderPlay(w, r, state)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	state, err := s.GameService.SubmitGuess(r.Context(), sessionTokenFromContext(r.Context()), r.FormValue("guess"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	switch {
	case state.Outcome.Correct, state.Outcome.Won:
		// Post/Redirect/Get; the play page sends finished players on to /win.
		log.Debug("guess accepted, redirecting")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		s.renderPlay(w, r, state)
	}
}

func (s *Server) renderPlay(w http.ResponseWriter, r *http.Request, state *services.GameState) {
	s.render(w, r, "pages/play.html", pageData{
		"title":     "Play",
		"session":   state.Session,
		"puzzle":    state.Puzzle,
		"show_hint": state.Outcome.ShowHint,
		"message":   state.Outcome.Message,
	})
}

func (s *Server) handleWin(w http.ResponseWriter, r *http.Request) {
	state, err := s.GameService.State(r.Context(), sessionTokenFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !state.Outcome.Won {
		// New levels were generated since this player finished.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "pages/win.html", pageData{
		"title":   "You won",
		"session": state.Session,
		"message": rebus.WinMessage,
	})
}

func (s *Server) handleGenerateLevels(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if err := s.GameService.TriggerGeneration(r.Context()); err != nil {
		log.Warn("manual generation request dropped: %v", err)
	} else {
		log.Info("manual generation request queued")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type stateResponse struct {
	CurrentLevel   int                 `json:"current_level"`
	Score          int                 `json:"score"`
	FailedAttempts int                 `json:"failed_attempts"`
	Won            bool                `json:"won"`
	ShowHint       bool                `json:"show_hint"`
	Message        string              `json:"message,omitempty"`
	Puzzle         *models.PuzzleLevel `json:"puzzle,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.GameService.State(r.Context(), sessionTokenFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := stateResponse{
		CurrentLevel:   state.Session.CurrentLevel,
		Score:          state.Session.Score,
		FailedAttempts: state.Session.FailedAttempts,
		Won:            state.Outcome.Won,
		ShowHint:       state.Outcome.ShowHint,
	}
	if state.Outcome.Won {
		resp.Message = rebus.WinMessage
	}
	if state.Puzzle != nil {
		p := *state.Puzzle
		if !state.Outcome.ShowHint {
			p.Hint = ""
		}
		resp.Puzzle = &p
	}
	writeJSON(w, r, http.StatusOK, resp)
}
