package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

const noChoiceMessage = "You didn't select a choice."

type PollHandler struct {
	pollService ports.PollService
	voteService ports.VoteService
	renderer    *Renderer
	clock       ports.Clock
	logger      *slog.Logger
}

func NewPollHandler(pollService ports.PollService, voteService ports.VoteService, renderer *Renderer, clock ports.Clock, logger *slog.Logger) *PollHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PollHandler{
		pollService: pollService,
		voteService: voteService,
		renderer:    renderer,
		clock:       clock,
		logger:      logger,
	}
}

type indexItem struct {
	ID      int64
	Text    string
	PubDate time.Time
	Recent  bool
}

type indexPage struct {
	Questions []indexItem
}

type detailPage struct {
	Question     *domain.Question
	ErrorMessage string
}

type resultsPage struct {
	Question   *domain.Question
	Results    []domain.ChoiceResult
	TotalVotes int64
}

func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.pollService.LatestQuestions(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	now := h.clock.Now()
	page := indexPage{Questions: make([]indexItem, 0, len(questions))}
	for _, q := range questions {
		page.Questions = append(page.Questions, indexItem{
			ID:      q.ID,
			Text:    q.Text,
			PubDate: q.PubDate,
			Recent:  q.WasPublishedRecently(now),
		})
	}

	h.render(w, r, http.StatusOK, pageIndex, page)
}

func (h *PollHandler) Detail(w http.ResponseWriter, r *http.Request) {
	question, ok := h.publishedQuestion(w, r)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, pageDetail, detailPage{Question: question})
}

func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	question, ok := h.publishedQuestion(w, r)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, pageResults, resultsPage{
		Question:   question,
		Results:    question.Results(),
		TotalVotes: question.TotalVotes(),
	})
}

func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	input := ports.VoteInput{
		QuestionID: chi.URLParam(r, "id"),
		ChoiceID:   r.PostForm.Get("choice"),
	}

	question, err := h.voteService.Vote(r.Context(), input)
	switch {
	case errors.Is(err, domain.ErrInvalidChoice):
		h.render(w, r, http.StatusOK, pageDetail, detailPage{
			Question:     question,
			ErrorMessage: noChoiceMessage,
		})
	case errors.Is(err, domain.ErrQuestionNotFound):
		http.NotFound(w, r)
	case err != nil:
		h.serverError(w, r, err)
	default:
		http.Redirect(w, r, fmt.Sprintf("/polls/%d/results", question.ID), http.StatusSeeOther)
	}
}

func (h *PollHandler) publishedQuestion(w http.ResponseWriter, r *http.Request) (*domain.Question, bool) {
	question, err := h.pollService.GetQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		h.serverError(w, r, err)
		return nil, false
	}
	return question, true
}

func (h *PollHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func (h *PollHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
