package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes вешает маршруты /todos на роутер. Методы, не описанные
// здесь, получают 405 с телом {"error":{"message":"Method not allowed"}}.
func RegisterRoutes(r chi.Router, h *TodoHandler) {
	r.Route("/todos", func(r chi.Router) {
		r.MethodNotAllowed(h.MethodNotAllowed)

		r.Get("/", h.GetTodos)  // GET /todos
		r.Post("/", h.PostTodo) // POST /todos

		r.Route("/{id}", func(r chi.Router) {
			r.MethodNotAllowed(h.MethodNotAllowed)

			r.Delete("/", h.DeleteTodo)         // DELETE /todos/{id}
			r.Put("/toggle-done", h.ToggleDone) // PUT /todos/{id}/toggle-done
		})
	})

	r.Get("/health", h.HealthCheck)

	// после Route, чтобы обработчики дошли до вложенных роутеров
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.NotFound(h.NotFound)
}
