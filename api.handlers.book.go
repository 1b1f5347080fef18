package bookstore

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBodyBytes caps the size of write requests payloads.
const maxBodyBytes = 1 << 20

// GetBook serves a book identified by the ISBN in the path.
func (api *APIHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	book, err := api.bookService.Get(r.Context(), isbn)
	if err != nil {
		api.fail(w, r, err, BookMessages, "failed to get book", zap.String("book.isbn", isbn))
		return
	}
	logger := api.GetLoggerFromContext(r.Context())
	logger.Info("success to get book", zap.String("book.isbn", isbn))
	if err = WriteResponse(r.Context(), w, http.StatusOK, book); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var book Book
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if _, err := api.validator.Decode(r.Body, BookCreateFields, &book); err != nil {
		api.fail(w, r, err, BookMessages, "failed to create book")
		return
	}

	created, err := api.bookService.Create(r.Context(), book)
	if err != nil {
		api.fail(w, r, err, BookMessages, "failed to create book", zap.String("book.isbn", book.ISBN))
		return
	}
	logger := api.GetLoggerFromContext(r.Context())
	logger.Info("success to create book", zap.String("book.isbn", created.ISBN))
	w.Header().Set("Location", "/books/"+url.PathEscape(created.ISBN))
	if err = WriteResponse(r.Context(), w, http.StatusCreated, created); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// UpdateBook replaces all mutable fields of the book identified by the
// ISBN in the path. An ISBN sent in the body must be the path one, and
// this is checked before the other fields formats.
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var book Book
	isbn := mux.Vars(r)["isbn"]
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := api.validator.Read(r.Body, BookUpdateFields)
	if err == nil {
		err = CheckBodyISBN(payload.Fields, isbn)
	}
	if err == nil {
		err = api.validator.Bind(payload, &book)
	}
	if err != nil {
		api.fail(w, r, err, BookMessages, "failed to update book", zap.String("book.isbn", isbn))
		return
	}

	updated, err := api.bookService.Update(r.Context(), isbn, book)
	if err != nil {
		api.fail(w, r, err, BookMessages, "failed to update book", zap.String("book.isbn", isbn))
		return
	}
	logger := api.GetLoggerFromContext(r.Context())
	logger.Info("success to update book", zap.String("book.isbn", isbn))
	if err = WriteResponse(r.Context(), w, http.StatusOK, updated); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}
