package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

type choiceRepository struct {
	db *sql.DB
}

func NewChoiceRepository(db *sql.DB) ports.ChoiceRepository {
	return &choiceRepository{
		db: db,
	}
}

func (r *choiceRepository) Save(ctx context.Context, choice *domain.Choice) error {
	query := `
		INSERT INTO choices (question_id, choice_text, votes)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, choice.QuestionID, choice.Text, choice.Votes).Scan(&choice.ID)
	if err != nil {
		return fmt.Errorf("failed to insert choice: %w", translate(err))
	}
	return nil
}

func (r *choiceRepository) Update(ctx context.Context, choice *domain.Choice) error {
	query := `
		UPDATE choices
		SET question_id = $1, choice_text = $2, votes = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, choice.QuestionID, choice.Text, choice.Votes, choice.ID)
	if err != nil {
		return fmt.Errorf("failed to update choice: %w", translate(err))
	}
	return expectRow(res, domain.ErrChoiceNotFound)
}

func (r *choiceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM choices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete choice: %w", err)
	}
	return expectRow(res, domain.ErrChoiceNotFound)
}

func (r *choiceRepository) GetByID(ctx context.Context, id int64) (*domain.Choice, error) {
	query := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE id = $1
	`
	var choice domain.Choice
	err := r.db.QueryRowContext(ctx, query, id).Scan(&choice.ID, &choice.QuestionID, &choice.Text, &choice.Votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChoiceNotFound
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	return &choice, nil
}

func (r *choiceRepository) ListByQuestion(ctx context.Context, questionID int64) ([]domain.Choice, error) {
	return fetchChoices(ctx, r.db, questionID)
}

func (r *choiceRepository) Search(ctx context.Context, filter ports.ChoiceFilter) ([]domain.Choice, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("choice_text ILIKE $%d", len(args)))
	}
	if filter.QuestionID != 0 {
		args = append(args, filter.QuestionID)
		conditions = append(conditions, fmt.Sprintf("question_id = $%d", len(args)))
	}

	query := `SELECT id, question_id, choice_text, votes FROM choices`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search choices: %w", err)
	}
	defer rows.Close()

	return scanChoices(rows)
}

// IncrementVotes is a single UPDATE so concurrent votes for the same choice
// are serialised by the row lock.
func (r *choiceRepository) IncrementVotes(ctx context.Context, questionID, choiceID int64) error {
	query := `UPDATE choices SET votes = votes + 1 WHERE id = $1 AND question_id = $2`
	res, err := r.db.ExecContext(ctx, query, choiceID, questionID)
	if err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}
	return expectRow(res, domain.ErrChoiceNotFound)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func fetchChoices(ctx context.Context, db queryer, questionID int64) ([]domain.Choice, error) {
	query := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE question_id = $1
		ORDER BY id
	`
	rows, err := db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	return scanChoices(rows)
}

func scanChoices(rows *sql.Rows) ([]domain.Choice, error) {
	var choices []domain.Choice
	for rows.Next() {
		var choice domain.Choice
		if err := rows.Scan(&choice.ID, &choice.QuestionID, &choice.Text, &choice.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, choice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}
