package commands

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/apiclient"
	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

// AppContext holds the dependencies shared across all commands
type AppContext struct {
	Cfg       *config.Config
	Client    *apiclient.Client
	Campaigns *service.CampaignService
	Logger    *zap.Logger
	Ctx       context.Context
}

func parseAudience(raw string, ids []string) (model.AudienceSelector, []model.ID, error) {
	selector, ok := model.ParseAudienceSelector(raw)
	if !ok {
		return "", nil, fmt.Errorf("unknown audience %q", raw)
	}
	var custom []model.ID
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			custom = append(custom, model.ID(id))
		}
	}
	return selector, custom, nil
}
