package handlers

import (
	"net/http"
	"todoList/internal/logger"
	"todoList/internal/repository"

	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

func mapRepositoryErrorToHTTP(code repository.Code) int {
	switch code {
	case repository.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleRepositoryError пишет ровно один ответ на ошибку репозитория.
// notFoundMessage используется для 404, всё остальное превращается в 500
// без подробностей.
func handleRepositoryError(w http.ResponseWriter, r *http.Request, err error, operation, notFoundMessage string) {
	code := repository.CodeOf(err)
	status := mapRepositoryErrorToHTTP(code)

	if status == http.StatusNotFound {
		logger.Warn("HTTP: Задача не найдена",
			zap.String("operation", operation),
			zap.String("error_code", string(code)),
			zap.Int("http_status", status),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, status, notFoundMessage)
		return
	}

	logger.Error("HTTP: Ошибка репозитория", err,
		zap.String("operation", operation),
		zap.Int("http_status", status),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, status, internalErrorMessage)
}
