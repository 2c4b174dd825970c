package questions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/notequiz/backend/internal/models"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generate-questions", h.GenerateQuestions).Methods("POST")
	r.HandleFunc("/get-feedback", h.GetFeedback).Methods("POST")
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	progress := func(p Progress) {
		h.log.Debug("generation progress",
			zap.String("stage", string(p.Stage)),
			zap.String("type", string(p.Type)),
			zap.Int("batch", p.Batch),
			zap.Int("total_batches", p.TotalBatches),
			zap.Int("generated", p.Generated))
	}

	resp, err := h.service.Generate(r.Context(), req, progress)
	if err != nil {
		var inputErr *InputError
		var genErr *GenerationError
		switch {
		case errors.As(err, &inputErr):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: inputErr.Problems})
		case errors.As(err, &genErr):
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to generate any valid questions",
				Details: genErr.Errors,
			})
		default:
			h.log.Error("generation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Generation failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	feedback, err := h.service.Feedback(r.Context(), req)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: inputErr.Problems})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate feedback"})
		return
	}

	writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: feedback})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
