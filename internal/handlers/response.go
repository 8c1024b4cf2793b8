package handlers

import (
	"encoding/json"
	"net/http"
	"todoList/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithBody(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Ошибка кодирования ответа", err)
	}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	responseWithBody(w, code, storage)
}

// responseWithError пишет {"error": "<message>"}.
func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, toPayload("error", message))
}

// responseWithErrorObject пишет {"error": {"message": "<message>", ...}}.
func responseWithErrorObject(w http.ResponseWriter, code int, message string, extra ...Payload) {
	body := make(map[string]any)
	toJSON(body, toPayload("message", message))
	for _, pl := range extra {
		toJSON(body, pl)
	}
	responseWithJSON(w, code, toPayload("error", body))
}

func responseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
