// Package httpjson provides the JSON request/response helpers shared by all
// feature handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wayfarehq/wayfare/internal/app/system/limits"
)

// Write encodes v as the response body with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Decode reads the request body into dst, enforcing limits.MaxJSONBody and
// rejecting unknown fields. Returns a caller-safe error message on failure.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("request body is not valid JSON for this endpoint")
	}
	return nil
}
