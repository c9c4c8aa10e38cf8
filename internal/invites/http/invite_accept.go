package http

import (
	"encoding/json"
	"net/http"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP redeems a code for the authenticated tenant. Outcomes use
// the same status vocabulary as validation; every status is a 200 so
// retries and UI handling stay uniform.
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	var req invitesdk.AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusOK, invitesdk.AcceptInviteResponse{
			Status: invitesdk.StatusInvalid,
		})
		return
	}

	result, err := h.InviteService.AcceptInvite(ctx, req.Code, userID)
	if err != nil {
		log.Error("failed to accept invite", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to accept invite",
		})
		return
	}

	if !result.Decision.Accept {
		httpx.WriteJSON(w, http.StatusOK, invitesdk.AcceptInviteResponse{
			Status: statusFromReason(result.Decision.Reason),
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.AcceptInviteResponse{
		Status:     invitesdk.StatusOK,
		PropertyID: result.PropertyID,
		TenancyID:  result.TenancyID,
	})
}
