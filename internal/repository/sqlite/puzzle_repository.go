package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const (
	maxCategoryLen = 50
	maxHintLen     = 255
	maxImageURLLen = 1000
)

type puzzleRepository struct {
	db *sql.DB
}

// NewPuzzleRepository creates a new PuzzleRepository implementation
func NewPuzzleRepository(db *sql.DB) repository.PuzzleRepository {
	return &puzzleRepository{db: db}
}

func (r *puzzleRepository) GetByLevel(ctx context.Context, levelNumber int) (*models.PuzzleLevel, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("getting puzzle: level_number=%d", levelNumber)

	var (
		p      models.PuzzleLevel
		image3 sql.NullString
		image4 sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, level_number, image_1_url, image_2_url, image_3_url, image_4_url, correct_answer, category, hint, created_at
FROM puzzle_levels
WHERE level_number = ?
`, levelNumber).Scan(&p.ID, &p.LevelNumber, &p.Image1URL, &p.Image2URL, &image3, &image4, &p.CorrectAnswer, &p.Category, &p.Hint, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no puzzle for level %d", levelNumber)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get puzzle: %v", err)
		return nil, fmt.Errorf("get puzzle level %d: %w", levelNumber, err)
	}
	if image3.Valid {
		p.Image3URL = &image3.String
	}
	if image4.Valid {
		p.Image4URL = &image4.String
	}
	return &p, nil
}

func (r *puzzleRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("puzzle_levels").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("puzzle_repo").Error("failed to count puzzles: %v", err)
		return 0, fmt.Errorf("count puzzles: %w", err)
	}
	return n, nil
}

func (r *puzzleRepository) RecentAnswers(ctx context.Context, limit int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	if limit <= 0 {
		return nil, nil
	}

	query, args, err := sqlBuilder.
		Select("correct_answer").
		From("puzzle_levels").
		OrderBy("level_number DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query recent answers: %v", err)
		return nil, fmt.Errorf("recent answers: %w", err)
	}
	defer rows.Close()

	answers := make([]string, 0, limit)
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		answers = append(answers, strings.ToLower(a))
	}
	log.Debug("loaded %d recent answers", len(answers))
	return answers, rows.Err()
}

// InsertNext assigns max+1 inside the INSERT itself, so the read and the write
// cannot interleave with another writer. The UNIQUE constraint still rejects
// a colliding number if one ever gets through.
func (r *puzzleRepository) InsertNext(ctx context.Context, level models.NewPuzzleLevel) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")

	answer := strings.TrimSpace(level.CorrectAnswer)
	if answer == "" {
		return 0, errors.New("insert puzzle: empty answer")
	}
	if utf8.RuneCountInString(answer) > models.MaxAnswerLength {
		return 0, fmt.Errorf("insert puzzle: answer longer than %d characters", models.MaxAnswerLength)
	}
	if level.Image1URL == "" || level.Image2URL == "" {
		return 0, errors.New("insert puzzle: both clue images are required")
	}
	if len(level.Image1URL) > maxImageURLLen || len(level.Image2URL) > maxImageURLLen {
		return 0, errors.New("insert puzzle: image url too long")
	}
	category := truncate(strings.TrimSpace(level.Category), maxCategoryLen)
	if category == "" {
		category = models.DefaultCategory
	}
	hint := truncate(strings.TrimSpace(level.Hint), maxHintLen)
	if hint == "" {
		hint = models.DefaultHint
	}

	var levelNumber int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO puzzle_levels (level_number, image_1_url, image_2_url, correct_answer, category, hint)
SELECT COALESCE(MAX(level_number), 0) + 1, ?, ?, ?, ?, ?
FROM puzzle_levels
RETURNING level_number
`, level.Image1URL, level.Image2URL, answer, category, hint).Scan(&levelNumber)
	if err != nil {
		log.Error("failed to insert puzzle: %v", err)
		return 0, fmt.Errorf("insert puzzle %q: %w", answer, err)
	}
	log.Debug("puzzle inserted: level_number=%d", levelNumber)
	return levelNumber, nil
}

func (r *puzzleRepository) List(ctx context.Context, filter models.PuzzleFilter) ([]models.PuzzleSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("listing puzzles: answer_contains=%q, limit=%d, offset=%d", filter.AnswerContains, filter.Limit, filter.Offset)

	query := sqlBuilder.
		Select("level_number", "correct_answer", "category", "hint", "image_1_url", "image_2_url").
		From("puzzle_levels")

	if q := strings.TrimSpace(filter.AnswerContains); q != "" {
		query = query.Where(squirrel.Like{"LOWER(correct_answer)": "%" + strings.ToLower(q) + "%"})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.OrderBy("level_number ASC").Limit(uint64(limit)).Offset(uint64(offset))

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list puzzles: %v", err)
		return nil, fmt.Errorf("list puzzles: %w", err)
	}
	defer rows.Close()

	var out []models.PuzzleSummary
	for rows.Next() {
		var p models.PuzzleSummary
		if err := rows.Scan(&p.LevelNumber, &p.CorrectAnswer, &p.Category, &p.Hint, &p.Image1URL, &p.Image2URL); err != nil {
			log.Error("failed to scan puzzle row: %v", err)
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
