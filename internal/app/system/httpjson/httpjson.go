// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the request/response conventions for the JSON
// API: one envelope shape for errors, one helper for writing bodies,
// one size-capped decoder for reading them.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps request bodies. Registration forms and news articles
// are small; anything past 1 MB is not a legitimate request.
const maxBodyBytes = 1 << 20

// Write renders v as JSON with the given status. Encoding failures are
// swallowed; the status line has already gone out.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the error envelope every failure response uses.
type errorBody struct {
	Error string `json:"error"`
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Error: msg})
}

// Decode reads a JSON request body into v, enforcing the size cap and
// rejecting unknown fields. The returned error message is safe to echo
// to the client.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}
