package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

type InviteListHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP lists a property's invites for the landlord dashboard,
// newest first, with statuses derived at response time.
func (h *InviteListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	propertyID := r.PathValue("id")

	invites, err := h.InviteService.ListPropertyInvites(ctx, propertyID)
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, invitesdk.ErrorResponse{
				Error:            invitesdk.ErrorCodeNotFound,
				ErrorDescription: "Property not found",
			})
			return
		}
		log.Error("failed to list invites", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
			Error:            invitesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list invites",
		})
		return
	}

	now := time.Now()
	summaries := make([]invitesdk.InviteSummary, 0, len(invites))
	for _, inv := range invites {
		summaries = append(summaries, inviteSummary(inv, now))
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.ListInvitesResponse{
		Invites: summaries,
	})
}
