package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/rebux/internal/errors"
	"github.com/vytor/rebux/internal/models"
)

const maxListLimit = 500

func parseLevelFilter(r *http.Request) (models.PuzzleFilter, error) {
	q := r.URL.Query()
	filter := models.PuzzleFilter{AnswerContains: strings.TrimSpace(q.Get("q"))}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			return filter, errors.NewValidationError("limit", "must be between 1 and 500")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLevelFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	levels, err := s.GameService.ListLevels(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.render(w, r, "pages/levels.html", pageData{
		"title":  "Levels",
		"query":  filter.AnswerContains,
		"levels": levels,
	})
}

func (s *Server) handleLevelsJSON(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLevelFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	levels, err := s.GameService.ListLevels(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if levels == nil {
		levels = []models.PuzzleSummary{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"levels": levels})
}
