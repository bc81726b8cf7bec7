package handler

import "net/http"

// HandleRoot is the unauthenticated liveness endpoint.
//
// HTTP: GET /
// RESPONSE: {"message":"Hello World"}
//
// Load balancers and uptime checks hit this route; it touches neither the
// database nor the token service, so it answers even when those are down.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}
