package controller_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/fellowship-comms/internal/apiclient"
	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/handler"
	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

// newRemoteCampaigns points an API client at the real router and builds the
// CLI-side campaign service on top of it.
func newRemoteCampaigns(t *testing.T, f *fixture) (*service.CampaignService, *apiclient.Client) {
	t.Helper()
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	token, err := handler.SignToken(secret, "cli", model.RoleAdmin)
	require.NoError(t, err)
	client, err := apiclient.New(srv.URL, token, nil)
	require.NoError(t, err)

	return &service.CampaignService{Store: client, Members: client, UnitPrice: 0.0075}, client
}

func TestClientSubmitAgainstRouter(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	campaigns, _ := newRemoteCampaigns(t, f)
	ctx := context.Background()

	created, err := campaigns.Submit(ctx, service.CampaignDraft{
		Name:           "Vestry",
		Audience:       model.AudienceCustom,
		CustomAudience: []model.ID{"m2", "m1"},
		Message:        "Hi {{firstName}}",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ID("c-1"), created.ID)
	assert.Equal(t, model.StatusDraft, created.Status)
	assert.Equal(t, []model.ID{"m2", "m1"}, f.store.items["c-1"].CustomAudience)

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	updated, err := campaigns.Submit(ctx, service.CampaignDraft{
		ID:          created.ID,
		Name:        "Vestry",
		Audience:    model.AudienceAll,
		Message:     "Meeting moved",
		ScheduledAt: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, updated.Status)
	assert.Equal(t, model.StatusScheduled, f.store.items["c-1"].Status)
	assert.Equal(t, "Meeting moved", f.store.items["c-1"].Message)
	assert.Empty(t, f.store.items["c-1"].CustomAudience)
}

func TestClientUpdateRefusedAfterSend(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	f.store.items["c-9"] = &model.Communication{ID: "c-9", Audience: model.AudienceAll, Message: "x", Status: model.StatusSent}
	campaigns, _ := newRemoteCampaigns(t, f)

	_, err := campaigns.Submit(context.Background(), service.CampaignDraft{ID: "c-9", Audience: model.AudienceAll, Message: "y"})
	assert.Error(t, err)
	assert.Equal(t, "x", f.store.items["c-9"].Message)
}

func TestClientReadsAgainstRouter(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	campaigns, client := newRemoteCampaigns(t, f)
	ctx := context.Background()

	est, err := campaigns.Estimate(ctx, model.AudienceEligible, nil, "Hello")
	require.NoError(t, err)
	assert.Equal(t, 2, est.Recipients)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)

	sid, err := client.SendTestSMS(ctx, "+1555001", "ping")
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
}
