package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// detail is the error body shape understood by vitalis clients.
type detail struct {
	Detail interface{} `json:"detail"`
}

// fieldDetail is a single field failure of an ErrBadRequest body.
type fieldDetail struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// Error writes msg as the detail of a JSON error body with the passed status
// code.
func Error(w http.ResponseWriter, msg string, code int) {
	write(w, code, detail{Detail: msg})
}

func ErrInternal(logger *zap.Logger, w http.ResponseWriter, err error) {
	logger.Error("internal server error", zap.Error(err))
	Error(
		w,
		"An unexpected internal server error occurred, please try again. If the issue persists, please contact support.",
		http.StatusInternalServerError,
	)
}

func ErrUnauthorized(w http.ResponseWriter) {
	Error(w, "Not authenticated; please sign-in to continue.", http.StatusUnauthorized)
}

func ErrForbidden(w http.ResponseWriter) {
	Error(
		w,
		"Forbidden; user does not have permission to carry-out this action.",
		http.StatusForbidden,
	)
}

// ErrBadRequest writes a 422 listing each failed field when err holds
// validator.ValidationErrors, and a plain 400 otherwise.
func ErrBadRequest(logger *zap.Logger, w http.ResponseWriter, err error) {
	logger.Warn("bad request", zap.Error(err))

	var valerrors validator.ValidationErrors
	if !errors.As(err, &valerrors) {
		Error(
			w,
			"An unknown field is invalid. Please update your request and retry.",
			http.StatusBadRequest,
		)
		return
	}

	fields := make([]fieldDetail, len(valerrors))
	for i, err := range valerrors {
		fields[i] = fieldDetail{
			Loc: []string{"body", err.Field()},
			Msg: fmt.Sprintf("\"%s\" failed \"%s\" validator", err.Field(), err.Tag()),
		}
	}

	write(w, http.StatusUnprocessableEntity, detail{Detail: fields})
}

func ErrConflict(w http.ResponseWriter, msg string) {
	Error(w, msg, http.StatusConflict)
}

func ErrNotFound(w http.ResponseWriter) {
	Error(
		w,
		"Resource not found. If this is unexpected, please contact support.",
		http.StatusNotFound,
	)
}

func write(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
