package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/scriberly/scriberly-be/internal/auth"
	"github.com/scriberly/scriberly-be/internal/models"
	"github.com/scriberly/scriberly-be/internal/services"
)

// respondError renders a JSON error body with the given status.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}

// currentUser loads the authenticated user from the request's JWT claims.
func currentUser(r *http.Request, users services.UserServiceProvider) (models.User, error) {
	claims, ok := r.Context().Value(auth.UserClaimsKey).(*auth.Claims)
	if !ok {
		return models.User{}, fmt.Errorf("no user claims in request context")
	}
	return users.GetUserByID(claims.UserID)
}
