package http

import (
	"encoding/json"
	"net/http"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

type InviteValidateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP checks a candidate code without consuming it. The response
// shape is identical for every outcome; a garbled body gets the same
// "invalid" answer as a well-formed code that was never issued.
func (h *InviteValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req invitesdk.ValidateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusOK, invitesdk.ValidateInviteResponse{
			Status: invitesdk.StatusInvalid,
		})
		return
	}

	result, err := h.InviteService.ValidateInvite(ctx, req.Code)
	if err != nil {
		log.Error("failed to validate invite", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to validate invite",
		})
		return
	}

	if !result.Decision.Accept {
		httpx.WriteJSON(w, http.StatusOK, invitesdk.ValidateInviteResponse{
			Status: statusFromReason(result.Decision.Reason),
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.ValidateInviteResponse{
		Status:   invitesdk.StatusOK,
		Property: propertyPreview(result.Property),
	})
}
