package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"studentrecords/internal/service"
)

// writeJSON encodes v before writing the status, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Println("Error writing response:", err)
	}
}

// writeError maps an operation error onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	switch status {
	case http.StatusNoContent:
		w.WriteHeader(status)
	case http.StatusInternalServerError:
		http.Error(w, "Internal server error", status)
	default:
		http.Error(w, err.Error(), status)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoData):
		return http.StatusNoContent
	default:
		log.Println("Error handling request:", err)
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", service.ErrInvalidInput, mux.Vars(r)["id"])
	}
	return id, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return nil
}
