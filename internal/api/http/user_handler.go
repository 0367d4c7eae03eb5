package http

import (
	"net/http"

	"collab-deck-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type lookupUserRequest struct {
	Email string `json:"email"`
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type lookupUserResponse struct {
	Exists bool         `json:"exists"`
	User   *userSummary `json:"user,omitempty"`
}

// Exists tells the collaborator form whether an email belongs to an account.
func (h *UserHandler) Exists(w http.ResponseWriter, r *http.Request) {
	var req lookupUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.userSvc.Lookup(r.Context(), ActorFromContext(r.Context()), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, lookupUserResponse{Exists: false})
		return
	}
	writeJSON(w, http.StatusOK, lookupUserResponse{
		Exists: true,
		User:   &userSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}
