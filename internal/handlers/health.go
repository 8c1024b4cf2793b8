package handlers

import (
	"net/http"
	"todoList/internal/logger"
)

const serviceName = "todo-list"

// HealthCheck GET /health
func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис нездоров", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName))
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName))
}
