package api

import (
	"net/http"

	"github.com/htol/libcat/metrics"
	"github.com/htol/libcat/middleware"
	"github.com/htol/libcat/service"
)

// Options tunes the handler. The zero value allows any CORS origin.
type Options struct {
	CORSOrigin string
}

// NewHandler creates and returns the main HTTP handler (router) for the application
func NewHandler(svc *service.Service, m *metrics.Metrics, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Authors
	mux.Handle("GET /api/authors", listAuthorsHandler(svc))
	mux.Handle("POST /api/authors", createAuthorHandler(svc))
	mux.Handle("GET /api/authors/search", searchAuthorsHandler(svc))
	mux.Handle("GET /api/authors/count", countAuthorsHandler(svc))
	mux.Handle("GET /api/authors/{id}", getAuthorHandler(svc))
	mux.Handle("PUT /api/authors/{id}", updateAuthorHandler(svc))
	mux.Handle("DELETE /api/authors/{id}", deleteAuthorHandler(svc))

	// Books
	mux.Handle("GET /api/books", listBooksHandler(svc))
	mux.Handle("POST /api/books", createBookHandler(svc))
	mux.Handle("GET /api/books/search", searchBooksHandler(svc))
	mux.Handle("GET /api/books/count", countBooksHandler(svc))
	mux.Handle("GET /api/books/{id}", getBookHandler(svc))
	mux.Handle("PUT /api/books/{id}", updateBookHandler(svc))
	mux.Handle("DELETE /api/books/{id}", deleteBookHandler(svc))

	mux.HandleFunc("GET /health", healthCheckHandler(svc))
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("/", notFoundHandler())

	// Apply middleware chain. Metrics must stay innermost to see the
	// matched pattern.
	chain := middleware.Chain(
		middleware.Recovery,
		middleware.Logger,
		middleware.RequestID,
		middleware.CORS(opts.CORSOrigin),
		middleware.Metrics(m),
	)

	return chain(mux)
}
