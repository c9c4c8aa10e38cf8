package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store/drivers/sqlite"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
	"github.com/dougsimpsoncodes/myailandlord/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-hmac-secret-must-be-long-enough")

const testIssuer = "https://platform.test"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "http_test.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.DiscardHandler)

	inviteService := &service.InviteService{
		Store:  st,
		Linker: &service.TenancyLinker{},
		Config: service.Config{
			DefaultTTL:     48 * time.Hour,
			MaxTTL:         30 * 24 * time.Hour,
			DefaultMaxUses: 1,
		},
	}
	propertyService := &service.PropertyService{Store: st}

	router := NewRouter(
		&jwtx.HS256Verifier{Secret: testSecret, Issuer: testIssuer},
		"test",
		st,
		logger,
	)
	router.InviteService = inviteService
	router.PropertyService = propertyService
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, subject string, scopes ...string) *invitesdk.Client {
	t.Helper()

	token := ""
	if subject != "" {
		var err error
		token, err = jwtx.SignHS256(testSecret, testIssuer, subject, scopes, time.Hour)
		require.NoError(t, err)
	}
	return invitesdk.NewClient(srv.URL, token)
}

func syncTestProperty(t *testing.T, srv *httptest.Server, propertyID string) {
	t.Helper()

	platform := newTestClient(t, srv, "platform", "properties:write")
	err := platform.SyncProperty(context.Background(), propertyID, invitesdk.SyncPropertyRequest{
		Name:        "7 Wattle Street",
		AddressLine: "7 Wattle St, Brunswick",
	})
	require.NoError(t, err)
}

func TestInviteLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	syncTestProperty(t, srv, "prop-1")

	landlord := newTestClient(t, srv, "landlord-1", "invites:write", "invites:read")
	tenant := newTestClient(t, srv, "tenant-1", "tenancy:accept")
	public := newTestClient(t, srv, "")

	minted, err := landlord.MintInvite(ctx, invitesdk.MintInviteRequest{
		PropertyID:     "prop-1",
		DeliveryMethod: "code",
	})
	require.NoError(t, err)
	require.Len(t, minted.Code, 12)
	require.Equal(t, "active", minted.Invite.Status)
	require.Equal(t, 1, minted.Invite.MaxUses)

	// Anyone can validate without consuming.
	validated, err := public.ValidateInvite(ctx, minted.Code)
	require.NoError(t, err)
	require.Equal(t, invitesdk.StatusOK, validated.Status)
	require.NotNil(t, validated.Property)
	require.Equal(t, "7 Wattle Street", validated.Property.Name)

	accepted, err := tenant.AcceptInvite(ctx, minted.Code)
	require.NoError(t, err)
	require.Equal(t, invitesdk.StatusOK, accepted.Status)
	require.Equal(t, "prop-1", accepted.PropertyID)
	require.NotEmpty(t, accepted.TenancyID)

	// The single use is spent.
	validated, err = public.ValidateInvite(ctx, minted.Code)
	require.NoError(t, err)
	require.Equal(t, invitesdk.StatusExhausted, validated.Status)
	require.Nil(t, validated.Property)

	listing, err := landlord.ListPropertyInvites(ctx, "prop-1")
	require.NoError(t, err)
	require.Len(t, listing.Invites, 1)
	require.Equal(t, "exhausted", listing.Invites[0].Status)
	require.Equal(t, 1, listing.Invites[0].UseCount)
}

func TestRevokeOverHTTP(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	syncTestProperty(t, srv, "prop-1")

	landlord := newTestClient(t, srv, "landlord-1", "invites:write")
	public := newTestClient(t, srv, "")

	minted, err := landlord.MintInvite(ctx, invitesdk.MintInviteRequest{
		PropertyID:     "prop-1",
		DeliveryMethod: "code",
	})
	require.NoError(t, err)

	revoked, err := landlord.RevokeInvite(ctx, minted.Invite.ID)
	require.NoError(t, err)
	require.Equal(t, "revoked", revoked.Status)

	validated, err := public.ValidateInvite(ctx, minted.Code)
	require.NoError(t, err)
	require.Equal(t, invitesdk.StatusRevoked, validated.Status)

	// Second revoke is a conflict, not a no-op.
	_, err = landlord.RevokeInvite(ctx, minted.Invite.ID)
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 409, apiErr.StatusCode)
	require.Equal(t, invitesdk.ErrorCodeAlreadyRevoked, apiErr.Code)

	_, err = landlord.RevokeInvite(ctx, "missing")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.StatusCode)
}

func TestValidateResponseShapeIsUniform(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	syncTestProperty(t, srv, "prop-1")

	landlord := newTestClient(t, srv, "landlord-1", "invites:write")
	public := newTestClient(t, srv, "")

	_, err := landlord.MintInvite(ctx, invitesdk.MintInviteRequest{
		PropertyID:     "prop-1",
		DeliveryMethod: "code",
	})
	require.NoError(t, err)

	// Malformed input and never-issued codes are indistinguishable.
	for _, candidate := range []string{"", "!!!", "nope", "AAAAbbbb0000"} {
		resp, err := public.ValidateInvite(ctx, candidate)
		require.NoError(t, err)
		require.Equal(t, invitesdk.StatusInvalid, resp.Status)
		require.Nil(t, resp.Property)
	}
}

func TestAuthEnforcement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	syncTestProperty(t, srv, "prop-1")

	t.Run("missing token", func(t *testing.T) {
		anonymous := newTestClient(t, srv, "")
		_, err := anonymous.MintInvite(ctx, invitesdk.MintInviteRequest{
			PropertyID:     "prop-1",
			DeliveryMethod: "code",
		})
		var apiErr *invitesdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("missing scope", func(t *testing.T) {
		tenant := newTestClient(t, srv, "tenant-1", "tenancy:accept")
		_, err := tenant.MintInvite(ctx, invitesdk.MintInviteRequest{
			PropertyID:     "prop-1",
			DeliveryMethod: "code",
		})
		var apiErr *invitesdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 403, apiErr.StatusCode)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := jwtx.SignHS256(testSecret, "https://evil.test", "landlord-1",
			[]string{"invites:write"}, time.Hour)
		require.NoError(t, err)

		client := invitesdk.NewClient(srv.URL, token)
		_, err = client.MintInvite(ctx, invitesdk.MintInviteRequest{
			PropertyID:     "prop-1",
			DeliveryMethod: "code",
		})
		var apiErr *invitesdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)

	client := invitesdk.NewClient(srv.URL, "")
	health, err := client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}
