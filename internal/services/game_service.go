package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/vytor/rebux/internal/errors"
	"github.com/vytor/rebux/internal/jobs"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/metrics"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/rebus"
	"github.com/vytor/rebux/internal/repository"
)

// MaxGuessLength mirrors the answer column width.
const MaxGuessLength = models.MaxAnswerLength

// GameState is what a page needs to render one player's view.
type GameState struct {
	Session models.GameSession
	// Puzzle is nil when Outcome.Won is set.
	Puzzle  *models.PuzzleLevel
	Outcome rebus.Outcome
}

// GameService handles gameplay for a session token.
type GameService interface {
	State(ctx context.Context, token string) (*GameState, error)
	SubmitGuess(ctx context.Context, token string, guess string) (*GameState, error)
	TriggerGeneration(ctx context.Context) error
	ListLevels(ctx context.Context, filter models.PuzzleFilter) ([]models.PuzzleSummary, error)
}

type gameService struct {
	puzzleRepo  repository.PuzzleRepository
	sessionRepo repository.SessionRepository
	taskQueue   jobs.TaskQueue
	metrics     *metrics.Metrics
	sessionTTL  time.Duration
	batchSize   int
}

// NewGameService creates a new GameService. m may be nil.
func NewGameService(
	puzzleRepo repository.PuzzleRepository,
	sessionRepo repository.SessionRepository,
	taskQueue jobs.TaskQueue,
	m *metrics.Metrics,
	sessionTTL time.Duration,
	batchSize int,
) GameService {
	return &gameService{
		puzzleRepo:  puzzleRepo,
		sessionRepo: sessionRepo,
		taskQueue:   taskQueue,
		metrics:     m,
		sessionTTL:  sessionTTL,
		batchSize:   batchSize,
	}
}

func (s *gameService) State(ctx context.Context, token string) (*GameState, error) {
	log := logger.FromContext(ctx)

	session, created, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.sessionRepo.Save(ctx, token, session, s.sessionTTL); err != nil {
			log.Error("failed to save new session: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	puzzle, err := s.puzzle(ctx, session.CurrentLevel)
	if err != nil {
		return nil, err
	}
	return &GameState{Session: session, Puzzle: puzzle, Outcome: rebus.View(session, puzzle)}, nil
}

func (s *gameService) SubmitGuess(ctx context.Context, token string, guess string) (*GameState, error) {
	log := logger.FromContext(ctx)

	if utf8.RuneCountInString(guess) > MaxGuessLength {
		return nil, errors.NewBadRequestError("guess is too long")
	}

	session, _, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	puzzle, err := s.puzzle(ctx, session.CurrentLevel)
	if err != nil {
		return nil, err
	}

	next, outcome := rebus.Advance(session, puzzle, guess)
	if outcome.Won {
		log.Debug("guess on level %d ignored, no puzzle", session.CurrentLevel)
		return &GameState{Session: session, Outcome: outcome}, nil
	}

	if err := s.sessionRepo.Save(ctx, token, next, s.sessionTTL); err != nil {
		log.Error("failed to save session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if !outcome.Correct {
		s.recordGuess("incorrect")
		log.Debug("incorrect guess on level %d, failed_attempts=%d", next.CurrentLevel, next.FailedAttempts)
		return &GameState{Session: next, Puzzle: puzzle, Outcome: outcome}, nil
	}

	s.recordGuess("correct")
	log.Info("level %d solved, score=%d", session.CurrentLevel, next.Score)
	s.maybeTriggerGeneration(ctx, next.CurrentLevel)

	nextPuzzle, err := s.puzzle(ctx, next.CurrentLevel)
	if err != nil {
		return nil, err
	}
	view := rebus.View(next, nextPuzzle)
	view.Correct = true
	return &GameState{Session: next, Puzzle: nextPuzzle, Outcome: view}, nil
}

// TriggerGeneration enqueues one batch. The caller never waits for it.
func (s *gameService) TriggerGeneration(ctx context.Context) error {
	if err := s.enqueue(ctx, "manual"); err != nil {
		return errors.NewUnavailableError("generation queue is not accepting work", err)
	}
	return nil
}

func (s *gameService) ListLevels(ctx context.Context, filter models.PuzzleFilter) ([]models.PuzzleSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing levels: q=%q", filter.AnswerContains)

	levels, err := s.puzzleRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list levels: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return levels, nil
}

// maybeTriggerGeneration runs after a correct guess. Errors are logged only,
// the guess itself already succeeded.
func (s *gameService) maybeTriggerGeneration(ctx context.Context, currentLevel int) {
	log := logger.FromContext(ctx)

	total, err := s.puzzleRepo.Count(ctx)
	if err != nil {
		log.Error("failed to count levels for trigger: %v", err)
		return
	}
	if !rebus.ShouldGenerate(total, currentLevel) {
		return
	}
	log.Info("only %d levels remaining, requesting generation", rebus.LevelsRemaining(total, currentLevel))
	if err := s.enqueue(ctx, "low_levels"); err != nil {
		log.Warn("generation not enqueued: %v", err)
	}
}

func (s *gameService) enqueue(ctx context.Context, reason string) error {
	err := s.taskQueue.EnqueueGeneration(s.batchSize, reason)
	if s.metrics != nil {
		outcome := "accepted"
		if err != nil {
			outcome = "rejected"
		}
		s.metrics.GenerationEnqueue.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue generation (%s): %v", reason, err)
	}
	return err
}

func (s *gameService) loadSession(ctx context.Context, token string) (models.GameSession, bool, error) {
	stored, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load session: %v", err)
		return models.GameSession{}, false, errors.NewInternalError(err)
	}
	if stored == nil {
		return models.NewGameSession(), true, nil
	}
	return *stored, false, nil
}

func (s *gameService) puzzle(ctx context.Context, level int) (*models.PuzzleLevel, error) {
	p, err := s.puzzleRepo.GetByLevel(ctx, level)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load puzzle for level %d: %v", level, err)
		return nil, errors.NewInternalError(err)
	}
	return p, nil
}

func (s *gameService) recordGuess(result string) {
	if s.metrics != nil {
		s.metrics.Guesses.WithLabelValues(result).Inc()
	}
}
