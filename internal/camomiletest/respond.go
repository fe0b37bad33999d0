package camomiletest

import (
	"encoding/json"
	"net/http"
)

// sendJSON writes msg as a JSON response with the given status code.
func sendJSON(w http.ResponseWriter, statusCode int, msg any) {
	body, err := json.Marshal(msg)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "unable to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// sendError writes the server's error shape: {"error": "..."}.
func sendError(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// readJSON decodes the request body into out, answering 400 on failure.
func readJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
