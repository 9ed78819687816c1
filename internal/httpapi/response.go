package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/riftcache/riftcache/executor"
)

// ApiResponse is the JSON envelope every handler returns, mirroring a
// Rust-style Result<T, String>: success carries data, failure carries
// error, never both.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOk(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Error: msg})
}

// writeResponse translates an executor.Response into the HTTP envelope.
// Null maps to a 200 with success=false, matching the original bridge's
// "Not found" convention rather than a 404 (callers distinguish on the
// success field, not the status code).
func writeResponse(w http.ResponseWriter, resp executor.Response) {
	switch resp.Type {
	case executor.RespOk:
		writeOk(w, "OK")
	case executor.RespValue:
		writeOk(w, resp.Value)
	case executor.RespInteger:
		writeOk(w, resp.Integer)
	case executor.RespArray:
		writeOk(w, resp.Array)
	case executor.RespArrayWithDepth:
		writeOk(w, resp.ArrayWithDepth)
	case executor.RespKeyInfo:
		writeOk(w, resp.Info)
	case executor.RespStats:
		writeOk(w, resp.Stats)
	case executor.RespNull:
		writeJSON(w, http.StatusOK, ApiResponse{Success: false, Error: "not found"})
	case executor.RespError:
		writeJSON(w, http.StatusUnprocessableEntity, ApiResponse{Success: false, Error: resp.Error})
	}
}
