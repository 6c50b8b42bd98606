package api

import (
	"net/http"

	"github.com/htol/libcat/service"
)

func healthCheckHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Check service health (database connection via service layer)
		if err := svc.Ping(ctx); err != nil {
			respondWithError(w, "service unavailable", err, http.StatusServiceUnavailable)
			return
		}

		respondWithData(w, http.StatusOK, map[string]string{"status": "healthy"}, "")
	}
}

// notFoundHandler answers unknown routes with the JSON envelope instead of
// the mux's plain text page.
func notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, envelope{Error: "Resource not found", Code: http.StatusNotFound})
	}
}
