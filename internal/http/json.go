// Package httpx implements the JSON API surface of the job service.
package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// maxRequestBody caps request bodies. Job submissions are a pair of taxon
// names; anything approaching this limit is not a legitimate request.
const maxRequestBody = 1 << 16

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DecodeJSON reads the request body into dst. The body must be a single JSON
// object with no unknown fields and no trailing data. On failure the error
// response has already been written and false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "request_too_large", Err: err})
			return false
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	if dec.More() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     errors.New("request body must contain a single JSON object"),
		})
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer before touching the response so an
// encoding failure can still produce a clean 500.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// The client is gone; nothing useful left to do.
		return
	}
}

// ErrorParams groups parameters for WriteError. ErrCode is the stable
// machine-readable code clients switch on; Err supplies the human message.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes the error response envelope used across the API.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, errorBody{Error: p.ErrCode, Message: p.Err.Error()})
}
