// Package handlers implements the screening console's HTTP endpoints.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps err's code to a status.  Only invalid-parameter messages
// are shown to the caller; everything else gets the code's default text.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	message := errors.DefaultMessageForCode(code)
	if code == errors.CodeInvalidParam {
		var ae *errors.AppError
		if stderrors.As(err, &ae) {
			message = ae.Message
		}
	}
	writeJSON(w, errors.HTTPStatusForCode(code), ErrorResponse{Code: string(code), Message: message})
}

// sortQuery is the ordering requested in the query string: an optional
// explicit state followed by toggles applied in order.
type sortQuery struct {
	state   *ranking.SortState
	toggles []ranking.SortField
}

// parseSort reads sort=<field>&order=asc|desc and repeated toggle=<field>.
func parseSort(r *http.Request) (sortQuery, error) {
	var q sortQuery
	values := r.URL.Query()

	if raw := values.Get("sort"); raw != "" {
		field, err := ranking.ParseField(raw)
		if err != nil {
			return q, err
		}
		dir, err := ranking.ParseDirection(values.Get("order"))
		if err != nil {
			return q, err
		}
		q.state = &ranking.SortState{Field: field, Direction: dir}
	} else if values.Get("order") != "" {
		return q, errors.InvalidParam("order requires sort")
	}

	for _, raw := range values["toggle"] {
		field, err := ranking.ParseField(raw)
		if err != nil {
			return q, err
		}
		q.toggles = append(q.toggles, field)
	}
	return q, nil
}
