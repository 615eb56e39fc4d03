package httpx

import (
	"io"
	"net/http"
)

// healthHandler answers liveness probes; it never consults the guard's backends.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, "ok")
}
