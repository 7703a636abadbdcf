// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/db"
	"github.com/unclebandit/fellowship-comms/internal/logging"
	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/repository"
)

// Roster is the seed file layout.
type Roster struct {
	Members []model.Member `yaml:"members"`
}

func LoadRoster(path string) (*Roster, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var roster Roster
	if err := yaml.Unmarshal(content, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for i := range roster.Members {
		if roster.Members[i].FirstName == "" {
			return nil, fmt.Errorf("member %d in %s has no firstName", i, path)
		}
		roster.Members[i].Normalize()
	}
	return &roster, nil
}

func main() {
	file := flag.String("file", "seed/members.yaml", "YAML roster to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.InitLogger(cfg.Env+"-seeder", cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if _, err := db.Migrate(ctx, conn); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	roster, err := LoadRoster(*file)
	if err != nil {
		logger.Fatal("failed to load roster", zap.Error(err))
	}

	repo := &repository.MemberRepository{DB: conn}
	for i := range roster.Members {
		if err := repo.Upsert(ctx, &roster.Members[i]); err != nil {
			logger.Fatal("failed to upsert member", zap.String("first_name", roster.Members[i].FirstName), zap.Error(err))
		}
	}

	logger.Info("database seeding completed", zap.String("file", *file), zap.Int("members", len(roster.Members)))
}
