package http

import (
	"errors"
	"net/http"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

type InviteRevokeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP permanently disables an invite. Revoking twice is an error
// rather than a no-op so callers notice double submissions.
func (h *InviteRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inviteID := r.PathValue("id")
	if inviteID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "invite id is required",
		})
		return
	}

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	err := h.InviteService.RevokeInvite(ctx, inviteID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeNotFound,
				ErrorDescription: "Invite not found",
			})
		case errors.Is(err, service.ErrInviteAlreadyRevoked):
			httpx.WriteJSON(w, http.StatusConflict, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeAlreadyRevoked,
				ErrorDescription: "Invite is already revoked",
			})
		default:
			log.Error("failed to revoke invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeServerError,
				ErrorDescription: "Failed to revoke invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.RevokeInviteResponse{
		ID:     inviteID,
		Status: "revoked",
	})
}
