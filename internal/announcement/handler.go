package announcement

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"campus-lms/internal/auth"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type PostRequest struct {
	Title       string `json:"title" validate:"required"`
	Message     string `json:"message" validate:"required"`
	CourseRunID *uint  `json:"course_run_id"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	announcements, err := h.service.ListForUser(userID)
	if err != nil {
		if errors.Is(err, ErrNoInstitution) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(announcements)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !auth.IsGrader(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.service.Post(userID, req.Title, req.Message, req.CourseRunID)
	if err != nil {
		if errors.Is(err, ErrNoInstitution) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrForbidden) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		log.Printf("Error posting announcement: %v", err)
		http.Error(w, "Posting failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

type PostDiscussionRequest struct {
	Content  string `json:"content" validate:"required"`
	LessonID *uint  `json:"lesson_id"`
}

func (h *Handler) ListDiscussions(w http.ResponseWriter, r *http.Request) {
	runID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course run ID", http.StatusBadRequest)
		return
	}

	discussions, err := h.service.ListDiscussions(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(discussions)
}

func (h *Handler) PostDiscussion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	runID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course run ID", http.StatusBadRequest)
		return
	}

	var req PostDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.service.PostDiscussion(userID, runID, req.LessonID, req.Content)
	if err != nil {
		log.Printf("Error posting discussion: %v", err)
		http.Error(w, "Posting failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

func pathID(r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
