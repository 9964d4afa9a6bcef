package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/rebux/internal/errors"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/rebus"
	"github.com/vytor/rebux/internal/services"
	"github.com/vytor/rebux/internal/testutil/mocks"
)

const (
	testToken = "token-1"
	testTTL   = time.Hour
	testBatch = 2
)

type GameServiceSuite struct {
	suite.Suite
	puzzles  *mocks.MockPuzzleRepository
	sessions *mocks.MockSessionRepository
	queue    *mocks.MockTaskQueue
	svc      services.GameService
	ctx      context.Context
}

func (s *GameServiceSuite) SetupTest() {
	s.puzzles = new(mocks.MockPuzzleRepository)
	s.sessions = new(mocks.MockSessionRepository)
	s.queue = new(mocks.MockTaskQueue)
	s.svc = services.NewGameService(s.puzzles, s.sessions, s.queue, nil, testTTL, testBatch)
	s.ctx = context.Background()
}

func puzzle(level int, answer string) *models.PuzzleLevel {
	return &models.PuzzleLevel{LevelNumber: level, CorrectAnswer: answer, Hint: "hint", Image1URL: "a", Image2URL: "b"}
}

func (s *GameServiceSuite) TestState_NewSessionIsSaved() {
	s.sessions.On("Get", mock.Anything, testToken).Return(nil, nil)
	s.sessions.On("Save", mock.Anything, testToken, models.NewGameSession(), testTTL).Return(nil)
	s.puzzles.On("GetByLevel", mock.Anything, 1).Return(puzzle(1, "Bill Gates"), nil)

	state, err := s.svc.State(s.ctx, testToken)
	s.Require().NoError(err)
	s.Equal(models.GameSession{CurrentLevel: 1}, state.Session)
	s.False(state.Outcome.Won)
	s.sessions.AssertExpectations(s.T())
}

func (s *GameServiceSuite) TestState_WonWhenLevelMissing() {
	stored := &models.GameSession{CurrentLevel: 4, Score: 300, FailedAttempts: 5}
	s.sessions.On("Get", mock.Anything, testToken).Return(stored, nil)
	s.puzzles.On("GetByLevel", mock.Anything, 4).Return(nil, nil)

	state, err := s.svc.State(s.ctx, testToken)
	s.Require().NoError(err)
	s.True(state.Outcome.Won)
	s.Nil(state.Puzzle)
	s.sessions.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *GameServiceSuite) TestSubmitGuess_CorrectAdvances() {
	s.sessions.On("Get", mock.Anything, testToken).Return(&models.GameSession{CurrentLevel: 1}, nil)
	s.puzzles.On("GetByLevel", mock.Anything, 1).Return(puzzle(1, "Bill Gates"), nil)
	s.puzzles.On("GetByLevel", mock.Anything, 2).Return(puzzle(2, "Starfish"), nil)
	s.sessions.On("Save", mock.Anything, testToken, models.GameSession{CurrentLevel: 2, Score: 100}, testTTL).Return(nil)
	s.puzzles.On("Count", mock.Anything).Return(20, nil)

	state, err := s.svc.SubmitGuess(s.ctx, testToken, "billgates")
	s.Require().NoError(err)
	s.True(state.Outcome.Correct)
	s.Equal(2, state.Puzzle.LevelNumber)
	s.queue.AssertNotCalled(s.T(), "EnqueueGeneration", mock.Anything, mock.Anything)
}

func (s *GameServiceSuite) TestSubmitGuess_TriggersGenerationOnce() {
	s.sessions.On("Get", mock.Anything, testToken).Return(&models.GameSession{CurrentLevel: 7, Score: 600}, nil)
	s.puzzles.On("GetByLevel", mock.Anything, 7).Return(puzzle(7, "Moonwalk"), nil)
	s.puzzles.On("GetByLevel", mock.Anything, 8).Return(puzzle(8, "Sunflower"), nil)
	s.sessions.On("Save", mock.Anything, testToken, models.GameSession{CurrentLevel: 8, Score: 700}, testTTL).Return(nil)
	s.puzzles.On("Count", mock.Anything).Return(10, nil)
	s.queue.On("EnqueueGeneration", testBatch, "low_levels").Return(nil).Once()

	_, err := s.svc.SubmitGuess(s.ctx, testToken, "moon walk")
	s.Require().NoError(err)
	s.queue.AssertNumberOfCalls(s.T(), "EnqueueGeneration", 1)
}

func (s *GameServiceSuite) TestSubmitGuess_EnqueueFailureDoesNotFailGuess() {
	s.sessions.On("Get", mock.Anything, testToken).Return(&models.GameSession{CurrentLevel: 9}, nil)
	s.puzzles.On("GetByLevel", mock.Anything, 9).Return(puzzle(9, "Moonwalk"), nil)
	s.puzzles.On("GetByLevel", mock.Anything, 10).Return(nil, nil)
	s.sessions.On("Save", mock.Anything, testToken, mock.Anything, testTTL).Return(nil)
	s.puzzles.On("Count", mock.Anything).Return(9, nil)
	s.queue.On("EnqueueGeneration", testBatch, "low_levels").Return(errors.New("worker pool queue is full"))

	state, err := s.svc.SubmitGuess(s.ctx, testToken, "Moonwalk")
	s.Require().NoError(err)
	s.True(state.Outcome.Correct)
	s.True(state.Outcome.Won)
}

func (s *GameServiceSuite) TestSubmitGuess_IncorrectShowsHintAtThree() {
	s.sessions.On("Get", mock.Anything, testToken).Return(&models.GameSession{CurrentLevel: 5, FailedAttempts: 2}, nil)
	s.puzzles.On("GetByLevel", mock.Anything, 5).Return(puzzle(5, "Pearl Harbor"), nil)
	s.sessions.On("Save", mock.Anything, testToken, models.GameSession{CurrentLevel: 5, FailedAttempts: 3}, testTTL).Return(nil)

	state, err := s.svc.SubmitGuess(s.ctx, testToken, "pearl")
	s.Require().NoError(err)
	s.False(state.Outcome.Correct)
	s.True(state.Outcome.ShowHint)
	s.Equal(rebus.IncorrectMessage, state.Outcome.Message)
	s.puzzles.AssertNotCalled(s.T(), "Count", mock.Anything)
}

func (s *GameServiceSuite) TestSubmitGuess_WonLeavesSessionUntouched() {
	s.sessions.On("Get", mock.Anything, testToken).Return(&models.GameSession{CurrentLevel: 3, Score: 200}, nil)
	s.puzzles.On("GetByLevel", mock.Anything, 3).Return(nil, nil)

	state, err := s.svc.SubmitGuess(s.ctx, testToken, "anything")
	s.Require().NoError(err)
	s.True(state.Outcome.Won)
	s.Equal(models.GameSession{CurrentLevel: 3, Score: 200}, state.Session)
	s.sessions.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *GameServiceSuite) TestSubmitGuess_TooLong() {
	_, err := s.svc.SubmitGuess(s.ctx, testToken, strings.Repeat("x", services.MaxGuessLength+1))
	s.Require().Error(err)
	s.Equal(apperrors.ErrCodeBadRequest, apperrors.AsAppError(err).Code)
}

func (s *GameServiceSuite) TestSubmitGuess_StoreError() {
	s.sessions.On("Get", mock.Anything, testToken).Return(nil, errors.New("redis down"))

	_, err := s.svc.SubmitGuess(s.ctx, testToken, "x")
	s.Require().Error(err)
	s.Equal(apperrors.ErrCodeInternal, apperrors.AsAppError(err).Code)
}

func (s *GameServiceSuite) TestTriggerGeneration() {
	s.queue.On("EnqueueGeneration", testBatch, "manual").Return(nil).Once()
	s.NoError(s.svc.TriggerGeneration(s.ctx))
}

func (s *GameServiceSuite) TestTriggerGeneration_QueueFull() {
	s.queue.On("EnqueueGeneration", testBatch, "manual").Return(errors.New("full"))
	err := s.svc.TriggerGeneration(s.ctx)
	s.Require().Error(err)
	s.Equal(apperrors.ErrCodeUnavailable, apperrors.AsAppError(err).Code)
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceSuite))
}

func TestListLevels_PassesFilter(t *testing.T) {
	puzzles := new(mocks.MockPuzzleRepository)
	filter := models.PuzzleFilter{AnswerContains: "star", Limit: 10}
	puzzles.On("List", mock.Anything, filter).Return([]models.PuzzleSummary{{LevelNumber: 3, CorrectAnswer: "Starfish"}}, nil)

	svc := services.NewGameService(puzzles, new(mocks.MockSessionRepository), new(mocks.MockTaskQueue), nil, testTTL, testBatch)
	levels, err := svc.ListLevels(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, levels, 1)
}
