package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shaonsust/poll-app/internal/adapters/repository/memory"
	"github.com/shaonsust/poll-app/internal/core/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *memory.Store, text string, pubDate time.Time, choices ...string) *domain.Question {
	t.Helper()

	q := &domain.Question{Text: text, PubDate: pubDate}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{Text: c})
	}
	require.NoError(t, store.Questions().Save(context.Background(), q))
	return q
}
