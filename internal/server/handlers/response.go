package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/cartkeeper/pkg/api"
)

// responder общая отправка ответов для всех handler'ов
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	WriteJSON(h.logger, w, data, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	WriteError(h.logger, w, message, statusCode)
}

// WriteJSON отправляет JSON ответ (используется и middleware)
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет api.ErrorResponse
func WriteError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
