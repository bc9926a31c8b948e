package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

type AdminHandler struct {
	service ports.AdminService
	logger  *slog.Logger
}

func NewAdminHandler(service ports.AdminService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

type createQuestionRequest struct {
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Choices []string  `json:"choices"`
}

type updateQuestionRequest struct {
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

type choiceRequest struct {
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Votes      int64  `json:"votes"`
}

func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	input := ports.ListQuestionsInput{
		Page:  pageParam(r),
		Query: r.URL.Query().Get("q"),
	}

	if raw := r.URL.Query().Get("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "published must be true or false")
			return
		}
		input.Published = &published
	}

	questions, err := h.service.ListQuestions(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if questions == nil {
		questions = []ports.QuestionSummary{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.service.CreateQuestion(r.Context(), ports.CreateQuestionInput{
		Text:    req.Text,
		PubDate: req.PubDate,
		Choices: req.Choices,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (h *AdminHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	question, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req updateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.service.UpdateQuestion(r.Context(), ports.UpdateQuestionInput{
		ID:      id,
		Text:    req.Text,
		PubDate: req.PubDate,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	questionID, ok := idParam(w, r)
	if !ok {
		return
	}

	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	choice, err := h.service.AddChoice(r.Context(), ports.ChoiceInput{
		QuestionID: questionID,
		Text:       req.Text,
		Votes:      req.Votes,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, choice)
}

func (h *AdminHandler) ListChoices(w http.ResponseWriter, r *http.Request) {
	input := ports.ListChoicesInput{
		Page:  pageParam(r),
		Query: r.URL.Query().Get("q"),
	}

	if raw := r.URL.Query().Get("question_id"); raw != "" {
		questionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid question_id")
			return
		}
		input.QuestionID = questionID
	}

	choices, err := h.service.ListChoices(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if choices == nil {
		choices = []domain.Choice{}
	}
	writeJSON(w, http.StatusOK, choices)
}

func (h *AdminHandler) UpdateChoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	choice, err := h.service.UpdateChoice(r.Context(), ports.ChoiceInput{
		ID:         id,
		QuestionID: req.QuestionID,
		Text:       req.Text,
		Votes:      req.Votes,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, choice)
}

func (h *AdminHandler) DeleteChoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteChoice(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrChoiceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		subject, _ := r.Context().Value(AdminSubjectKey).(string)
		h.logger.ErrorContext(r.Context(), "admin request failed", "path", r.URL.Path, "admin", subject, "error", err)
		writeError(w, http.StatusInternalServerError, "")
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
