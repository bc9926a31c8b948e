package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaonsust/poll-app/internal/adapters/repository/memory"
	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
	"github.com/shaonsust/poll-app/internal/core/services"
)

func TestVote(t *testing.T) {
	store := memory.NewStore()
	svc := services.NewVoteService(store.Questions(), store.Choices(), nil)
	q := seed(t, store, "Colour?", testNow, "Red", "Blue")
	other := seed(t, store, "Animal?", testNow, "Cat")

	counts := func() []int64 {
		var out []int64
		for _, id := range []int64{q.Choices[0].ID, q.Choices[1].ID, other.Choices[0].ID} {
			c, err := store.Choices().GetByID(context.Background(), id)
			require.NoError(t, err)
			out = append(out, c.Votes)
		}
		return out
	}

	t.Run("valid choice increments exactly one count", func(t *testing.T) {
		voted, err := svc.Vote(context.Background(), ports.VoteInput{
			QuestionID: fmt.Sprint(q.ID),
			ChoiceID:   fmt.Sprint(q.Choices[0].ID),
		})
		require.NoError(t, err)
		assert.Equal(t, q.ID, voted.ID)
		assert.Equal(t, []int64{1, 0, 0}, counts())
	})

	t.Run("invalid choices leave counts unchanged", func(t *testing.T) {
		for _, choiceID := range []string{"", "x", "9999", fmt.Sprint(other.Choices[0].ID)} {
			voted, err := svc.Vote(context.Background(), ports.VoteInput{
				QuestionID: fmt.Sprint(q.ID),
				ChoiceID:   choiceID,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidChoice, "choice %q", choiceID)
			require.NotNil(t, voted)
			assert.Equal(t, "Colour?", voted.Text)
		}
		assert.Equal(t, []int64{1, 0, 0}, counts())
	})

	t.Run("missing question", func(t *testing.T) {
		_, err := svc.Vote(context.Background(), ports.VoteInput{QuestionID: "9999", ChoiceID: "1"})
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

		_, err = svc.Vote(context.Background(), ports.VoteInput{QuestionID: "abc", ChoiceID: "1"})
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})
}
