package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/repository/sqlite"
	"github.com/vytor/rebux/internal/services"
	"github.com/vytor/rebux/internal/testutil"
	"github.com/vytor/rebux/internal/testutil/mocks"
)

func fixedTheme() string { return "History" }

func TestGenerateLevels_SkipsConceptWithMissingImage(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPuzzleRepository)
	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)

	repo.On("RecentAnswers", mock.Anything, services.RecentAnswerWindow).Return([]string{"moonwalk"}, nil)
	llm.On("GenerateConcepts", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "moonwalk") && strings.Contains(p, "Generate 2 puzzles")
	})).Return([]models.PuzzleConcept{
		{FinalAnswer: "Pearl Harbor", Category: "History", Hint: "1941", SearchTerm1: "pearl", SearchTerm2: "harbor"},
		{FinalAnswer: "Iron Curtain", Category: "History", Hint: "Cold War", SearchTerm1: "iron", SearchTerm2: "curtain"},
	}, nil)
	images.On("SearchImage", mock.Anything, "pearl").Return("https://img/pearl.jpg", nil)
	images.On("SearchImage", mock.Anything, "harbor").Return("https://img/harbor.jpg", nil)
	images.On("SearchImage", mock.Anything, "iron").Return("https://img/iron.jpg", nil)
	images.On("SearchImage", mock.Anything, "curtain").Return("", errors.New("unsplash status 403"))
	repo.On("InsertNext", mock.Anything, models.NewPuzzleLevel{
		Image1URL:     "https://img/pearl.jpg",
		Image2URL:     "https://img/harbor.jpg",
		CorrectAnswer: "Pearl Harbor",
		Category:      "History",
		Hint:          "1941",
	}).Return(11, nil).Once()

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	report, err := svc.GenerateLevels(ctx, 2)

	require.NoError(t, err)
	assert.Equal(t, "History", report.Theme)
	assert.Equal(t, 2, report.Proposed)
	assert.Equal(t, []int{11}, report.Saved)
	assert.Equal(t, []string{"Iron Curtain"}, report.Skipped)
	repo.AssertNumberOfCalls(t, "InsertNext", 1)
	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestGenerateLevels_SkipsOverLongAnswer(t *testing.T) {
	repo := new(mocks.MockPuzzleRepository)
	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)

	long := strings.Repeat("ä", models.MaxAnswerLength+1)
	repo.On("RecentAnswers", mock.Anything, services.RecentAnswerWindow).Return([]string{}, nil)
	llm.On("GenerateConcepts", mock.Anything, mock.Anything).Return([]models.PuzzleConcept{
		{FinalAnswer: long, Category: "Misc", Hint: "h", SearchTerm1: "long1", SearchTerm2: "long2"},
		{FinalAnswer: "Starfish", Category: "Nature", Hint: "sea", SearchTerm1: "star", SearchTerm2: "fish"},
	}, nil)
	images.On("SearchImage", mock.Anything, "star").Return("https://img/star.jpg", nil)
	images.On("SearchImage", mock.Anything, "fish").Return("https://img/fish.jpg", nil)
	repo.On("InsertNext", mock.Anything, mock.MatchedBy(func(l models.NewPuzzleLevel) bool {
		return l.CorrectAnswer == "Starfish"
	})).Return(4, nil).Once()

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	report, err := svc.GenerateLevels(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, []int{4}, report.Saved)
	assert.Equal(t, []string{long}, report.Skipped)
	images.AssertNotCalled(t, "SearchImage", mock.Anything, "long1")
	images.AssertNotCalled(t, "SearchImage", mock.Anything, "long2")
	repo.AssertNumberOfCalls(t, "InsertNext", 1)
}

func TestGenerateLevels_AnswerAtLimitIsKept(t *testing.T) {
	repo := new(mocks.MockPuzzleRepository)
	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)

	exact := strings.Repeat("ä", models.MaxAnswerLength)
	repo.On("RecentAnswers", mock.Anything, services.RecentAnswerWindow).Return([]string{}, nil)
	llm.On("GenerateConcepts", mock.Anything, mock.Anything).Return([]models.PuzzleConcept{
		{FinalAnswer: exact, Category: "Misc", Hint: "h", SearchTerm1: "a", SearchTerm2: "b"},
	}, nil)
	images.On("SearchImage", mock.Anything, mock.Anything).Return("https://img/x.jpg", nil)
	repo.On("InsertNext", mock.Anything, mock.Anything).Return(1, nil).Once()

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	report, err := svc.GenerateLevels(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int{1}, report.Saved)
	assert.Empty(t, report.Skipped)
}

func TestGenerateLevels_LLMFailureSavesNothing(t *testing.T) {
	repo := new(mocks.MockPuzzleRepository)
	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)

	repo.On("RecentAnswers", mock.Anything, services.RecentAnswerWindow).Return([]string{}, nil)
	llm.On("GenerateConcepts", mock.Anything, mock.Anything).Return(nil, errors.New("schema mismatch"))

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	report, err := svc.GenerateLevels(context.Background(), 3)

	assert.Error(t, err)
	assert.Nil(t, report)
	repo.AssertNotCalled(t, "InsertNext", mock.Anything, mock.Anything)
	images.AssertNotCalled(t, "SearchImage", mock.Anything, mock.Anything)
}

func TestGenerateLevels_DefaultsNumLevels(t *testing.T) {
	repo := new(mocks.MockPuzzleRepository)
	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)

	repo.On("RecentAnswers", mock.Anything, services.RecentAnswerWindow).Return(nil, nil)
	llm.On("GenerateConcepts", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Generate 5 puzzles")
	})).Return([]models.PuzzleConcept{}, nil)

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	report, err := svc.GenerateLevels(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, services.DefaultNumLevels, report.Requested)
	assert.Empty(t, report.Saved)
}

func TestGenerateLevels_StorageErrorEndsRun(t *testing.T) {
	repo := new(mocks.MockPuzzleRepository)
	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)

	repo.On("RecentAnswers", mock.Anything, services.RecentAnswerWindow).Return(nil, nil)
	llm.On("GenerateConcepts", mock.Anything, mock.Anything).Return([]models.PuzzleConcept{
		{FinalAnswer: "A", SearchTerm1: "a1", SearchTerm2: "a2"},
		{FinalAnswer: "B", SearchTerm1: "b1", SearchTerm2: "b2"},
	}, nil)
	images.On("SearchImage", mock.Anything, mock.Anything).Return("https://img/x.jpg", nil)
	repo.On("InsertNext", mock.Anything, mock.Anything).Return(0, errors.New("UNIQUE constraint failed")).Once()

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	_, err := svc.GenerateLevels(context.Background(), 2)

	assert.ErrorContains(t, err, "UNIQUE")
	repo.AssertNumberOfCalls(t, "InsertNext", 1)
}

func TestGenerateLevels_NumbersFollowExistingMax(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	repo := sqlite.NewPuzzleRepository(db)

	for i := 0; i < 3; i++ {
		_, err := repo.InsertNext(ctx, models.NewPuzzleLevel{Image1URL: "u1", Image2URL: "u2", CorrectAnswer: "seed"})
		require.NoError(t, err)
	}

	llm := new(mocks.MockLLMClient)
	images := new(mocks.MockImageClient)
	llm.On("GenerateConcepts", mock.Anything, mock.Anything).Return([]models.PuzzleConcept{
		{FinalAnswer: "Sunflower", Category: "Nature", Hint: "Yellow", SearchTerm1: "sun", SearchTerm2: "flower"},
		{FinalAnswer: "Starfish", Category: "Nature", Hint: "Sea", SearchTerm1: "star", SearchTerm2: "fish"},
	}, nil)
	images.On("SearchImage", mock.Anything, "sun").Return("https://img/sun.jpg", nil)
	images.On("SearchImage", mock.Anything, "flower").Return("https://img/flower.jpg", nil)
	images.On("SearchImage", mock.Anything, "star").Return("", errors.New("no results"))

	svc := services.NewGeneratorService(repo, llm, images, nil, services.WithThemePicker(fixedTheme))
	report, err := svc.GenerateLevels(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, report.Saved)

	level, err := repo.GetByLevel(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.Equal(t, "Sunflower", level.CorrectAnswer)
	images.AssertNotCalled(t, "SearchImage", mock.Anything, "fish")

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}
