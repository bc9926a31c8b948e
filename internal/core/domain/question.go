package domain

import (
	"time"
	"unicode/utf8"
)

// MaxTextLength bounds question and choice text.
const MaxTextLength = 200

// RecentWindow is how far back a publication still counts as recent.
const RecentWindow = 24 * time.Hour

type Question struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Choices []Choice  `json:"choices,omitempty"`
}

// WasPublishedRecently reports whether PubDate lies in [now-RecentWindow, now].
func (q *Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-RecentWindow)) && !q.PubDate.After(now)
}

// IsPublished reports whether the question is visible to voters at now.
func (q *Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

func (q *Question) TotalVotes() int64 {
	var total int64
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}

// Results pairs each choice with its share of the question's votes.
func (q *Question) Results() []ChoiceResult {
	total := q.TotalVotes()
	results := make([]ChoiceResult, 0, len(q.Choices))
	for _, c := range q.Choices {
		percentage := 0.0
		if total > 0 {
			percentage = (float64(c.Votes) / float64(total)) * 100
		}
		results = append(results, ChoiceResult{Choice: c, Percentage: percentage})
	}
	return results
}

func (q *Question) HasChoice(choiceID int64) bool {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return true
		}
	}
	return false
}

func ValidText(text string) bool {
	n := utf8.RuneCountInString(text)
	return n > 0 && n <= MaxTextLength
}
