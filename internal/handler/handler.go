package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/auth"
	"github.com/Jamolkhon5/hackwoo/internal/models"
	"github.com/Jamolkhon5/hackwoo/internal/repository"
	"github.com/Jamolkhon5/hackwoo/internal/savedideas"
)

var errUnauthorized = errors.New("unauthorized")

type Handler struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewHandler(repo *repository.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/session", h.SignIn)
	r.Get("/v1/ideas/saved", h.ListSaved)
	r.Post("/v1/ideas/saved", h.SaveIdea)
	r.Delete("/v1/ideas/saved/{index}", h.DeleteSaved)
}

// SignIn обновляет локальную копию пользователя из токена
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.repo.UpsertUser(r.Context(), models.User{
		ExternalID: id.UserID,
		Email:      id.Email,
		FirstName:  id.FirstName,
		LastName:   id.LastName,
	})
	if err != nil {
		h.internal(w, "upsert user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	list, ok := h.savedList(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.SavedIdeasResponse{Ideas: nonNil(list.All())})
}

func (h *Handler) SaveIdea(w http.ResponseWriter, r *http.Request) {
	var req models.SaveIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		http.Error(w, "idea is required", http.StatusBadRequest)
		return
	}

	ideas, err := h.updateSaved(r, func(ctx context.Context, list *savedideas.List) error {
		return list.Add(ctx, req.Idea)
	})
	if err != nil {
		h.savedError(w, "save idea", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.SavedIdeasResponse{Ideas: ideas})
}

func (h *Handler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return
	}

	ideas, err := h.updateSaved(r, func(ctx context.Context, list *savedideas.List) error {
		return list.Delete(ctx, index)
	})
	if err != nil {
		h.savedError(w, "delete saved idea", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SavedIdeasResponse{Ideas: nonNil(ideas)})
}

// updateSaved читает, меняет и записывает список в одной транзакции
func (h *Handler) updateSaved(r *http.Request, fn func(ctx context.Context, list *savedideas.List) error) ([]string, error) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		return nil, errUnauthorized
	}
	var ideas []string
	err := h.repo.UpdateKV(r.Context(), id.UserID, func(kv *repository.KVStore) error {
		list, err := savedideas.Load(r.Context(), kv)
		if err != nil {
			return err
		}
		if err := fn(r.Context(), list); err != nil {
			return err
		}
		ideas = list.All()
		return nil
	})
	return ideas, err
}

func (h *Handler) savedError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, savedideas.ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.internal(w, msg, err)
	}
}

func (h *Handler) savedList(w http.ResponseWriter, r *http.Request) (*savedideas.List, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	list, err := savedideas.Load(r.Context(), h.repo.KV(id.UserID))
	if err != nil {
		h.internal(w, "load saved ideas", err)
		return nil, false
	}
	return list, true
}

func (h *Handler) internal(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
