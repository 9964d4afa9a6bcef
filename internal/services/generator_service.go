package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/vytor/rebux/internal/gemini"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/metrics"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/rebus"
	"github.com/vytor/rebux/internal/repository"
	"github.com/vytor/rebux/internal/unsplash"
)

const (
	// DefaultNumLevels is used when a caller asks for zero or fewer levels.
	DefaultNumLevels = 5
	// RecentAnswerWindow is how many of the newest answers are excluded from a new batch.
	RecentAnswerWindow = 50
)

// GeneratorService produces new puzzle levels from the LLM and the image provider.
type GeneratorService interface {
	GenerateLevels(ctx context.Context, numLevels int) (*models.GenerationReport, error)
}

type generatorService struct {
	puzzleRepo repository.PuzzleRepository
	llm        gemini.ClientInterface
	images     unsplash.ClientInterface
	metrics    *metrics.Metrics
	pickTheme  func() string
}

// GeneratorOption configures the generator service.
type GeneratorOption func(*generatorService)

// WithThemePicker replaces the random theme choice.
func WithThemePicker(pick func() string) GeneratorOption {
	return func(s *generatorService) { s.pickTheme = pick }
}

// NewGeneratorService creates a new GeneratorService. m may be nil.
func NewGeneratorService(
	puzzleRepo repository.PuzzleRepository,
	llm gemini.ClientInterface,
	images unsplash.ClientInterface,
	m *metrics.Metrics,
	opts ...GeneratorOption,
) GeneratorService {
	s := &generatorService{
		puzzleRepo: puzzleRepo,
		llm:        llm,
		images:     images,
		metrics:    m,
		pickTheme: func() string {
			return rebus.Themes[rand.IntN(len(rebus.Themes))]
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateLevels runs one batch. An LLM failure aborts the batch before anything
// is saved; an over-long answer or an image failure only skips that concept. A storage error ends the
// run with the levels saved so far kept.
func (s *generatorService) GenerateLevels(ctx context.Context, numLevels int) (*models.GenerationReport, error) {
	if numLevels <= 0 {
		numLevels = DefaultNumLevels
	}
	log := logger.FromContext(ctx).WithPrefix("generator")

	excluded, err := s.puzzleRepo.RecentAnswers(ctx, RecentAnswerWindow)
	if err != nil {
		log.Error("failed to load recent answers: %v", err)
		s.recordRun("failed")
		return nil, fmt.Errorf("load recent answers: %w", err)
	}

	theme := s.pickTheme()
	log = log.WithField("theme", theme)
	log.Info("requesting %d concepts, excluding %d recent answers", numLevels, len(excluded))

	report := &models.GenerationReport{Theme: theme, Requested: numLevels}

	concepts, err := s.llm.GenerateConcepts(ctx, rebus.BuildPrompt(numLevels, theme, excluded))
	if err != nil {
		log.Error("llm call failed, aborting batch: %v", err)
		s.recordRun("failed")
		return nil, fmt.Errorf("generate concepts: %w", err)
	}
	report.Proposed = len(concepts)

	for _, concept := range concepts {
		if err := ctx.Err(); err != nil {
			s.recordRun("failed")
			return report, err
		}
		conceptLog := log.WithField("answer", concept.FinalAnswer)
		conceptLog.Debug("clues: %q + %q", concept.SearchTerm1, concept.SearchTerm2)

		if n := utf8.RuneCountInString(strings.TrimSpace(concept.FinalAnswer)); n > models.MaxAnswerLength {
			conceptLog.Warn("skipping concept, answer is %d characters (max %d)", n, models.MaxAnswerLength)
			report.Skipped = append(report.Skipped, concept.FinalAnswer)
			continue
		}

		img1, img2, err := s.resolveImages(ctx, concept)
		if err != nil {
			conceptLog.Warn("skipping concept, no image: %v", err)
			report.Skipped = append(report.Skipped, concept.FinalAnswer)
			continue
		}

		levelNumber, err := s.puzzleRepo.InsertNext(ctx, models.NewPuzzleLevel{
			Image1URL:     img1,
			Image2URL:     img2,
			CorrectAnswer: concept.FinalAnswer,
			Category:      concept.Category,
			Hint:          concept.Hint,
		})
		if err != nil {
			conceptLog.Error("failed to save level: %v", err)
			s.recordRun("failed")
			return report, fmt.Errorf("save level %q: %w", concept.FinalAnswer, err)
		}
		report.Saved = append(report.Saved, levelNumber)
		if s.metrics != nil {
			s.metrics.LevelsGenerated.Inc()
		}
		conceptLog.Info("saved level %d", levelNumber)
	}

	status := "completed"
	if len(report.Saved) < report.Proposed {
		status = "partial"
	}
	s.recordRun(status)
	log.Info("batch %s: saved=%v skipped=%s", status, report.Saved, strings.Join(report.Skipped, ", "))
	return report, nil
}

// resolveImages looks both terms up one after the other and stops at the first failure.
func (s *generatorService) resolveImages(ctx context.Context, c models.PuzzleConcept) (string, string, error) {
	img1, err := s.lookup(ctx, c.SearchTerm1)
	if err != nil {
		return "", "", err
	}
	img2, err := s.lookup(ctx, c.SearchTerm2)
	if err != nil {
		return "", "", err
	}
	return img1, img2, nil
}

func (s *generatorService) lookup(ctx context.Context, term string) (string, error) {
	url, err := s.images.SearchImage(ctx, term)
	if err == nil && url == "" {
		err = fmt.Errorf("no image for %q", term)
	}
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.ImageLookups.WithLabelValues(status).Inc()
	}
	if err != nil {
		return "", fmt.Errorf("image lookup %q: %w", term, err)
	}
	return url, nil
}

func (s *generatorService) recordRun(status string) {
	if s.metrics != nil {
		s.metrics.GenerationRuns.WithLabelValues(status).Inc()
	}
}
