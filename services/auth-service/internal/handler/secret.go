package handler

import (
	"net/http"

	"github.com/vasapolrittideah/auth-api/shared/payload"
)

const secretMessage = "Authentication complete"

func (h *authHTTPHandler) secrets(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Please log in or sign up to see this content")
		return
	}

	writeJSON(w, http.StatusOK, payload.SecretResponse{
		Username: user.Name,
		Message:  secretMessage,
	})
}
