package domain

type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Votes      int64  `json:"votes"`
}

type ChoiceResult struct {
	Choice
	Percentage float64 `json:"percentage"`
}

// QuestionResult is a question's tally as produced by the report job.
type QuestionResult struct {
	Question   Question       `json:"question"`
	TotalVotes int64          `json:"total_votes"`
	Choices    []ChoiceResult `json:"choices"`
}
