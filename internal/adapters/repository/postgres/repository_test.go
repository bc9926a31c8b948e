package postgres

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, ApplyMigrations(ctx, db, "up"))
	return db
}

func createQuestion(t *testing.T, repo ports.QuestionRepository, text string, days int, choices ...string) *domain.Question {
	t.Helper()

	q := &domain.Question{Text: text, PubDate: time.Now().UTC().AddDate(0, 0, days)}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{Text: c})
	}
	require.NoError(t, repo.Save(context.Background(), q))
	return q
}

func TestQuestionRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)

	past := createQuestion(t, questions, "Past question?", -30, "Yes", "No")
	recent := createQuestion(t, questions, "Recent question?", -1, "Maybe")
	future := createQuestion(t, questions, "Future question?", 30, "Later")

	t.Run("list published newest first", func(t *testing.T) {
		list, err := questions.ListPublished(ctx, time.Now(), 5)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, recent.ID, list[0].ID)
		assert.Equal(t, past.ID, list[1].ID)
	})

	t.Run("get published hides future", func(t *testing.T) {
		_, err := questions.GetPublished(ctx, future.ID, time.Now())
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

		q, err := questions.GetPublished(ctx, past.ID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "Past question?", q.Text)
		require.Len(t, q.Choices, 2)
		assert.Equal(t, "Yes", q.Choices[0].Text)
	})

	t.Run("search by text and publication", func(t *testing.T) {
		published := false
		list, err := questions.Search(ctx, ports.QuestionFilter{Query: "QUESTION", Published: &published, Now: time.Now()})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, future.ID, list[0].ID)

		list, err = questions.Search(ctx, ports.QuestionFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("update and missing rows", func(t *testing.T) {
		past.Text = "Edited?"
		require.NoError(t, questions.Update(ctx, past))

		q, err := questions.GetByID(ctx, past.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited?", q.Text)

		err = questions.Update(ctx, &domain.Question{ID: 9999, Text: "x", PubDate: time.Now()})
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, questions.Delete(ctx, past.ID))

		list, err := choices.ListByQuestion(ctx, past.ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.ErrorIs(t, questions.Delete(ctx, past.ID), domain.ErrQuestionNotFound)
	})
}

func TestChoiceRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)

	q1 := createQuestion(t, questions, "First?", -1, "Red", "Blue")
	q2 := createQuestion(t, questions, "Second?", -1, "Reddish")

	t.Run("increment only within owning question", func(t *testing.T) {
		require.NoError(t, choices.IncrementVotes(ctx, q1.ID, q1.Choices[0].ID))

		err := choices.IncrementVotes(ctx, q1.ID, q2.Choices[0].ID)
		assert.ErrorIs(t, err, domain.ErrChoiceNotFound)

		red, err := choices.GetByID(ctx, q1.Choices[0].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), red.Votes)

		other, err := choices.GetByID(ctx, q2.Choices[0].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), other.Votes)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, choices.IncrementVotes(ctx, q1.ID, q1.Choices[1].ID))
			}()
		}
		wg.Wait()

		blue, err := choices.GetByID(ctx, q1.Choices[1].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), blue.Votes)
	})

	t.Run("save rejects unknown question", func(t *testing.T) {
		err := choices.Save(ctx, &domain.Choice{QuestionID: 9999, Text: "Orphan"})
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("negative votes violate the check constraint", func(t *testing.T) {
		c := q2.Choices[0]
		c.Votes = -1
		assert.ErrorIs(t, choices.Update(ctx, &c), domain.ErrValidation)
	})

	t.Run("search", func(t *testing.T) {
		list, err := choices.Search(ctx, ports.ChoiceFilter{Query: "red"})
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = choices.Search(ctx, ports.ChoiceFilter{Query: "red", QuestionID: q2.ID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Reddish", list[0].Text)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, choices.Delete(ctx, q2.Choices[0].ID))
		assert.ErrorIs(t, choices.Delete(ctx, q2.Choices[0].ID), domain.ErrChoiceNotFound)
	})
}

func TestMigrationsRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db, "down"))

	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'questions')`).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists)

	name, err := ApplyMigration(ctx, db, "create_polls.up")
	require.NoError(t, err)
	assert.Equal(t, "000001_create_polls.up.sql", name)

	_, err = ApplyMigration(ctx, db, "does_not_exist")
	assert.Error(t, err)
}
