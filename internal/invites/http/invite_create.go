package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

type InviteCreateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP mints a new invite for a property. The plaintext code in
// the response is the only copy that will ever exist.
func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req invitesdk.MintInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.PropertyID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "property_id is required",
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

	result, err := h.InviteService.MintInvite(ctx, service.MintParams{
		PropertyID:        req.PropertyID,
		CreatedBy:         userID,
		DeliveryMethod:    domain.DeliveryMethod(req.DeliveryMethod),
		IntendedRecipient: req.IntendedRecipient,
		TTL:               time.Duration(req.TTLSeconds) * time.Second,
		MaxUses:           req.MaxUses,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMintRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid invite parameters",
			})
		case errors.Is(err, service.ErrPropertyNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeNotFound,
				ErrorDescription: "Property not found",
			})
		default:
			log.Error("failed to mint invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeServerError,
				ErrorDescription: "Failed to create invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.MintInviteResponse{
		Code:   result.Code,
		Invite: inviteSummary(result.Invite, time.Now()),
	})
}
