package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/quiz"
)

// MaxQuestions caps numberOfQuestions per request.
const MaxQuestions = 50

// maxBodyBytes caps the request body.
const maxBodyBytes = 1 << 20

// Generator is the engine behind the generate endpoint.
type Generator interface {
	Generate(ctx context.Context, req quiz.Request) quiz.Result
}

// Handler serves the quiz API.
type Handler struct {
	gen           Generator
	minTextLength int
	log           *logger.Logger
}

// NewHandler creates a Handler. Text shorter than minTextLength characters
// is rejected before the engine is called.
func NewHandler(gen Generator, minTextLength int, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{gen: gen, minTextLength: minTextLength, log: log}
}

type generateRequest struct {
	Text              string   `json:"text"`
	Difficulty        string   `json:"difficulty"`
	NumberOfQuestions int      `json:"numberOfQuestions"`
	QuestionTypes     []string `json:"questionTypes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate handles POST /api/v1/quizzes/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	req, err := h.toRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res := h.gen.Generate(r.Context(), req)
	h.log.Info("quiz generated",
		"method", string(res.Method),
		"fallback_reason", res.FallbackReason,
		"requested", req.NumberOfQuestions,
		"generated", res.Questions.Len(),
	)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) toRequest(body generateRequest) (quiz.Request, error) {
	text := strings.TrimSpace(body.Text)
	if n := utf8.RuneCountInString(text); n < h.minTextLength {
		return quiz.Request{}, fmt.Errorf("text must be at least %d characters, got %d", h.minTextLength, n)
	}

	difficulty, err := quiz.ParseDifficulty(body.Difficulty)
	if err != nil {
		return quiz.Request{}, err
	}

	if body.NumberOfQuestions < 1 || body.NumberOfQuestions > MaxQuestions {
		return quiz.Request{}, fmt.Errorf("numberOfQuestions must be between 1 and %d", MaxQuestions)
	}

	var types []quiz.QuestionType
	for _, s := range body.QuestionTypes {
		t, err := quiz.ParseQuestionType(s)
		if err != nil {
			return quiz.Request{}, err
		}
		types = append(types, t)
	}

	return quiz.Request{
		Text:              text,
		Difficulty:        difficulty,
		NumberOfQuestions: body.NumberOfQuestions,
		QuestionTypes:     types,
	}, nil
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
