package api

import (
	"fmt"
	"net/http"

	"github.com/htol/libcat/service"
)

func listBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.ListBooks(r.Context())
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, books, fmt.Sprintf("Retrieved %d books", len(books)))
	})
}

func getBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, book, "Book retrieved successfully")
	})
}

func createBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := decodeFields(w, r)
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}
		in, err := f.newBook()
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}

		book, err := svc.CreateBook(r.Context(), in)
		if err != nil {
			respondWithServiceError(w, err, http.StatusBadRequest)
			return
		}
		respondWithData(w, http.StatusCreated, book, "Book created successfully")
	})
}

func updateBookHandler(svc *service.Service) http.Handler {
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
		patch, err := f.bookPatch()
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}

		book, err := svc.UpdateBook(r.Context(), id, patch)
		if err != nil {
			respondWithServiceError(w, err, http.StatusBadRequest)
			return
		}
		respondWithData(w, http.StatusOK, book, "Book updated successfully")
	})
}

func deleteBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteBook(r.Context(), id); err != nil {
			respondWithServiceError(w, err, http.StatusBadRequest)
			return
		}
		respondWithData(w, http.StatusOK, nil, fmt.Sprintf("Book %d deleted successfully", id))
	})
}

func searchBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		books, err := svc.SearchBooks(r.Context(), query)
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, books, fmt.Sprintf("Found %d books matching %q", len(books), query))
	})
}

func countBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.CountBooks(r.Context())
		if err != nil {
			respondWithServiceError(w, err, http.StatusNotFound)
			return
		}
		respondWithData(w, http.StatusOK, map[string]int64{"count": n}, fmt.Sprintf("Total books: %d", n))
	})
}
