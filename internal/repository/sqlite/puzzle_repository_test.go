package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/repository"
	"github.com/vytor/rebux/internal/repository/sqlite"
	"github.com/vytor/rebux/internal/testutil"
)

type PuzzleRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PuzzleRepository
}

func (s *PuzzleRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPuzzleRepository(s.db)
}

func (s *PuzzleRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PuzzleRepositorySuite) insert(answer string) int {
	n, err := s.repo.InsertNext(context.Background(), models.NewPuzzleLevel{
		Image1URL:     "https://img/1.jpg",
		Image2URL:     "https://img/2.jpg",
		CorrectAnswer: answer,
		Category:      "Nature",
		Hint:          "Think harder",
	})
	s.Require().NoError(err)
	return n
}

func (s *PuzzleRepositorySuite) TestInsertNext_AssignsSequentialNumbers() {
	s.Equal(1, s.insert("Sunflower"))
	s.Equal(2, s.insert("Starfish"))
	s.Equal(3, s.insert("Moonwalk"))

	level, err := s.repo.GetByLevel(context.Background(), 3)
	s.Require().NoError(err)
	s.Require().NotNil(level)
	s.Equal("Moonwalk", level.CorrectAnswer)
}

func (s *PuzzleRepositorySuite) TestInsertNext_FollowsGaps() {
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `INSERT INTO puzzle_levels (level_number, image_1_url, image_2_url, correct_answer) VALUES (7, 'a', 'b', 'Seed')`)
	s.Require().NoError(err)

	s.Equal(8, s.insert("Next"))
}

func (s *PuzzleRepositorySuite) TestInsertNext_AppliesDefaultsAndLimits() {
	ctx := context.Background()
	n, err := s.repo.InsertNext(ctx, models.NewPuzzleLevel{
		Image1URL:     "a",
		Image2URL:     "b",
		CorrectAnswer: "  Pearl Harbor ",
		Category:      strings.Repeat("c", 80),
	})
	s.Require().NoError(err)

	level, err := s.repo.GetByLevel(ctx, n)
	s.Require().NoError(err)
	s.Require().NotNil(level)
	s.Equal("Pearl Harbor", level.CorrectAnswer)
	s.Len(level.Category, 50)
	s.Equal(models.DefaultHint, level.Hint)
	s.Nil(level.Image3URL)
	s.Nil(level.Image4URL)
}

func (s *PuzzleRepositorySuite) TestInsertNext_RejectsOverLongAnswer() {
	ctx := context.Background()
	_, err := s.repo.InsertNext(ctx, models.NewPuzzleLevel{
		Image1URL:     "a",
		Image2URL:     "b",
		CorrectAnswer: strings.Repeat("ä", models.MaxAnswerLength+1),
	})
	s.Error(err)

	total, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Zero(total)

	n, err := s.repo.InsertNext(ctx, models.NewPuzzleLevel{
		Image1URL:     "a",
		Image2URL:     "b",
		CorrectAnswer: strings.Repeat("ä", models.MaxAnswerLength),
	})
	s.Require().NoError(err)
	level, err := s.repo.GetByLevel(ctx, n)
	s.Require().NoError(err)
	s.Equal(models.MaxAnswerLength, utf8.RuneCountInString(level.CorrectAnswer))
}

func (s *PuzzleRepositorySuite) TestInsertNext_RejectsMissingImage() {
	_, err := s.repo.InsertNext(context.Background(), models.NewPuzzleLevel{Image1URL: "a", CorrectAnswer: "x"})
	s.Error(err)

	total, err := s.repo.Count(context.Background())
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *PuzzleRepositorySuite) TestInsertNext_ConcurrentWritersGetDistinctNumbers() {
	var wg sync.WaitGroup
	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := s.repo.InsertNext(context.Background(), models.NewPuzzleLevel{
				Image1URL: "a", Image2URL: "b", CorrectAnswer: fmt.Sprintf("answer %d", i),
			})
			if err == nil {
				results <- n
			}
		}(i)
	}
	wg.Wait()
	close(results)

	seen := map[int]bool{}
	for n := range results {
		s.False(seen[n], "level %d assigned twice", n)
		seen[n] = true
	}
	s.Len(seen, 10)
}

func (s *PuzzleRepositorySuite) TestGetByLevel_MissingIsNil() {
	level, err := s.repo.GetByLevel(context.Background(), 42)
	s.NoError(err)
	s.Nil(level)
}

func (s *PuzzleRepositorySuite) TestRecentAnswers_NewestFirstLowercased() {
	s.insert("Sunflower")
	s.insert("Bill Gates")
	s.insert("Moonwalk")

	answers, err := s.repo.RecentAnswers(context.Background(), 2)
	s.Require().NoError(err)
	s.Equal([]string{"moonwalk", "bill gates"}, answers)
}

func (s *PuzzleRepositorySuite) TestList_SearchAndPaging() {
	s.insert("Starfish")
	s.insert("Sunflower")
	s.insert("Rockstar")

	levels, err := s.repo.List(context.Background(), models.PuzzleFilter{AnswerContains: "STAR"})
	s.Require().NoError(err)
	s.Require().Len(levels, 2)
	s.Equal(1, levels[0].LevelNumber)
	s.Equal(3, levels[1].LevelNumber)

	page, err := s.repo.List(context.Background(), models.PuzzleFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("Sunflower", page[0].CorrectAnswer)
}

func TestPuzzleRepositorySuite(t *testing.T) {
	suite.Run(t, new(PuzzleRepositorySuite))
}
