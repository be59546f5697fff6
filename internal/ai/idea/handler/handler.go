package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/completion"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/interpreter"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/service"
)

// Тексты ошибок, которые видит клиент
const (
	msgInvalidAction   = "Invalid action"
	msgInvalidBody     = "Invalid request body"
	msgMissingKey      = "API key is missing"
	msgInvalidKey      = "Invalid API key"
	msgGenerateFailed  = "Failed to generate content"
	msgInternalFailure = "Internal server error"
)

type IdeaAssistantHandler struct {
	assistant *service.IdeaAssistant
	logger    *zap.Logger
}

func NewIdeaAssistantHandler(assistant *service.IdeaAssistant, logger *zap.Logger) *IdeaAssistantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaAssistantHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Dispatch принимает {action, data} и возвращает {result} или описание ошибки
func (h *IdeaAssistantHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method "+r.Method+" Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidBody})
		return
	}

	result, err := h.assistant.Dispatch(r.Context(), req)
	if err != nil {
		h.writeError(w, req.Action, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ActionResponse{Result: result})
}

func (h *IdeaAssistantHandler) writeError(w http.ResponseWriter, action string, err error) {
	var (
		invalidAction *service.InvalidActionError
		requestErr    *service.RequestError
		configErr     *completion.ConfigurationError
		upstreamErr   *completion.UpstreamError
		fallback      *interpreter.RawFallback
	)

	switch {
	case errors.As(err, &invalidAction):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidAction})
	case errors.As(err, &requestErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: requestErr.Error()})
	case errors.As(err, &configErr):
		h.logger.Error("completion is not configured", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: msgMissingKey})
	case errors.As(err, &upstreamErr):
		msg := msgGenerateFailed
		if upstreamErr.InvalidCredential {
			msg = msgInvalidKey
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: msg})
	case errors.As(err, &fallback):
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:        fallback.Error(),
			RawResponse:  fallback.Raw,
			ParseError:   fallback.ParseError,
			ExtractError: fallback.ExtractError,
		})
	default:
		h.logger.Error("error handling action", zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: msgInternalFailure})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterRoutes регистрирует маршрут генерации.
// Метод проверяется в обработчике, чтобы отвечать 405 с заголовком Allow.
func (h *IdeaAssistantHandler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/api", h.Dispatch)
}
