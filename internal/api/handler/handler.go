// Package handler implements the HTTP endpoints. Handlers decode and
// validate input, delegate to services, and write the response envelope;
// streamed endpoints copy raw chunks with flushing instead.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/llm"
)

var validate = validator.New()

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. It writes the error envelope itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.ValidationError(w, "Invalid request body", nil)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			details := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				switch e.Tag() {
				case "required":
					details[field] = "field is required"
				case "min":
					details[field] = "must be at least " + e.Param() + " characters"
				case "max":
					details[field] = "must be at most " + e.Param() + " characters"
				case "oneof":
					details[field] = "must be one of " + e.Param()
				default:
					details[field] = "validation failed on " + e.Tag()
				}
			}
			response.ValidationError(w, "Invalid request body", details)
			return false
		}
		response.ValidationError(w, err.Error(), nil)
		return false
	}
	return true
}

// callContext builds observability metadata for a completion call
func callContext(r *http.Request, route, sessionID string) llm.CallContext {
	return llm.CallContext{
		RequestID: middleware.GetReqID(r.Context()),
		Route:     route,
		SessionID: sessionID,
	}
}

// writeStream copies chunks to the client as raw chunked text, flushing
// after each one. Errors after the first byte can only terminate the body;
// the status line is already gone.
func writeStream(w http.ResponseWriter, r *http.Request, stream <-chan llm.StreamChunk) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for chunk := range stream {
		if chunk.Err != nil {
			log.Error().Err(chunk.Err).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("stream aborted")
			return
		}
		if _, err := w.Write([]byte(chunk.Text)); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
