package api

import (
	"fmt"
	"net/http"

	"github.com/htol/libcat/service"
)

func listAuthorsHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authors, err := svc.ListAuthors(r.Context())
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, authors, fmt.Sprintf("Retrieved %d authors", len(authors)))
	})
}

func getAuthorHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		author, err := svc.GetAuthor(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, author, "Author retrieved successfully")
	})
}

func createAuthorHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := decodeFields(w, r)
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}
		in, err := f.newAuthor()
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}

		author, err := svc.CreateAuthor(r.Context(), in)
		if err != nil {
			respondWithServiceError(w, err, http.StatusBadRequest)
			return
		}
		respondWithData(w, http.StatusCreated, author, "Author created successfully")
	})
}

func updateAuthorHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		f, err := decodeFields(w, r)
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}
		patch, err := f.authorPatch()
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}

		author, err := svc.UpdateAuthor(r.Context(), id, patch)
		if err != nil {
			respondWithServiceError(w, err, http.StatusBadRequest)
			return
		}
		respondWithData(w, http.StatusOK, author, "Author updated successfully")
	})
}

func deleteAuthorHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteAuthor(r.Context(), id); err != nil {
			respondWithServiceError(w, err, http.StatusBadRequest)
			return
		}
		respondWithData(w, http.StatusOK, nil, fmt.Sprintf("Author %d deleted successfully", id))
	})
}

func searchAuthorsHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		authors, err := svc.SearchAuthors(r.Context(), query)
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, authors, fmt.Sprintf("Found %d authors matching %q", len(authors), query))
	})
}

func countAuthorsHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.CountAuthors(r.Context())
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, map[string]int64{"count": n}, fmt.Sprintf("Total authors: %d", n))
	})
}
