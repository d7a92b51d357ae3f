package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/avery-dunn/nutriguide/internal/auth"
	apperr "github.com/avery-dunn/nutriguide/internal/errors"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// authenticate resolves the requesting user from the auth_token cookie.
func authenticate(r *http.Request) (uuid.UUID, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	userIDStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(userIDStr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps the error taxonomy onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case apperr.IsConflict(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case apperr.IsSelfReference(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// pathID parses the {id} segment of the matched route.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}
