package assignment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"campus-lms/internal/auth"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type SubmitRequest struct {
	TextAnswer string `json:"text_answer" validate:"required"`
	FileURL    string `json:"file_url" validate:"omitempty,url"`
}

// GradeRequest carries the raw score. Zero is a legal grade, so no required
// tag; the service rejects negative scores.
type GradeRequest struct {
	Score decimal.Decimal `json:"score"`
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid assignment ID", http.StatusBadRequest)
		return
	}

	assignment, err := h.service.GetAssignment(id)
	if err != nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(assignment)
}

func (h *Handler) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid assignment ID", http.StatusBadRequest)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.service.SubmitAssignment(id, userID, req.TextAnswer, req.FileURL)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Assignment not found", http.StatusNotFound)
		case errors.Is(err, ErrSubmissionClosed):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error submitting assignment %d: %v", id, err)
			http.Error(w, "Submission failed", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	graderID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !auth.IsGrader(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	id, ok := pathID(r, "submissionId")
	if !ok {
		http.Error(w, "Invalid submission ID", http.StatusBadRequest)
		return
	}

	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.service.Grade(id, graderID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Submission not found", http.StatusNotFound)
		case errors.Is(err, ErrNegativeScore):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error grading submission %d: %v", id, err)
			http.Error(w, "Grading failed", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(sub)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	if !auth.IsGrader(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid assignment ID", http.StatusBadRequest)
		return
	}

	subs, err := h.service.SubmissionsForAssignment(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(subs)
}

func pathID(r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
