package http

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro da API JSON.
const (
	CodeValidation = "VALIDATION"
	CodeConflict   = "CONFLICT"
	CodeRemote     = "REMOTE"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL"
)

// envelope é o formato único de resposta: {data, error}.
type envelope struct {
	Data  any        `json:"data"`
	Error *ErrorBody `json:"error"`
}

// ErrorBody descreve falhas normalizadas.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteJSON escreve envelope de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Data: data})
}

// WriteError escreve envelope de erro; details é omitido quando nil.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	writeEnvelope(w, status, envelope{Error: &ErrorBody{Code: code, Message: message, Details: details}})
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
