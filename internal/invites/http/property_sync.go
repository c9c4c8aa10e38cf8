package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

type PropertySyncHandler struct {
	PropertyService *service.PropertyService
}

// ServeHTTP upserts a mirrored property record pushed by the host
// platform. Idempotent; the platform retries freely.
func (h *PropertySyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	propertyID := r.PathValue("id")

	var req invitesdk.SyncPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	err := h.PropertyService.UpsertProperty(ctx, domain.Property{
		ID:          propertyID,
		Name:        req.Name,
		AddressLine: req.AddressLine,
		CreatedBy:   httpx.UserIDFromContext(ctx),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidProperty) {
			httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeInvalidRequest,
				ErrorDescription: "name is required",
			})
			return
		}
		log.Error("failed to sync property", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to sync property",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
