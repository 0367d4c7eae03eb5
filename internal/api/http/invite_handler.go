package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/service"

	"github.com/gorilla/mux"
)

const (
	// PendingInviteCookieName holds an invite token across the sign-in detour.
	PendingInviteCookieName = "pendingInviteToken"
	pendingInviteTTL        = 7 * 24 * time.Hour
)

type InviteHandler struct {
	inviteSvc service.InviteService
	appURL    string
}

func NewInviteHandler(inviteSvc service.InviteService, appURL string) *InviteHandler {
	return &InviteHandler{inviteSvc: inviteSvc, appURL: strings.TrimRight(appURL, "/")}
}

type createInviteRequest struct {
	ProjectID string `json:"projectId"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

type inviteResponse struct {
	Message string         `json:"message"`
	Invite  *domain.Invite `json:"invite"`
}

type invitesResponse struct {
	Invites []domain.Invite `json:"invites"`
}

func (h *InviteHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	invite, err := h.inviteSvc.CreateInvite(r.Context(), ActorFromContext(r.Context()), req.ProjectID, req.Email, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inviteResponse{Message: "Invite created", Invite: invite})
}

func (h *InviteHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteSvc.ListOutgoingInvites(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitesResponse{Invites: invites})
}

func (h *InviteHandler) CancelInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.inviteSvc.CancelInvite(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Invite cancelled"})
}

func (h *InviteHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.inviteSvc.ResendInvite(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Invite resent"})
}

func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, badRequest("token required"))
		return
	}
	project, err := h.inviteSvc.AcceptInvite(r.Context(), ActorFromContext(r.Context()), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: PendingInviteCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, projectResponse{Message: "Invite accepted", Project: project})
}

// Redirect is the link target in invite emails. It parks the token in a
// cookie so it survives a sign-in, then forwards to the accept page.
func (h *InviteHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	target := h.appURL + "/invite/accept"
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     PendingInviteCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(pendingInviteTTL.Seconds()),
		HttpOnly: true,
	})
	http.Redirect(w, r, target+"?token="+url.QueryEscape(token), http.StatusFound)
}
