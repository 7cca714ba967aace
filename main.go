package main

import (
	"fmt"
	"os"

	auth "auction-board/internal/authService"
	bidding "auction-board/internal/biddingService"
	"auction-board/internal/config"
	"auction-board/internal/events"
	listing "auction-board/internal/listingService"
	model "auction-board/internal/models"
	"auction-board/internal/repository"
	"auction-board/internal/server"
	"auction-board/utils"
)

func main() {
	cfg := config.NewConfig()

	repo, err := buildRepo(cfg)
	if err != nil {
		utils.Error("Failed to initialize storage", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	seedCategories(repo, cfg.Categories)

	publisher := buildPublisher(cfg)
	defer publisher.Close()

	authSvc := auth.NewAuthService(repo, cfg.JWTSecret)
	biddingSvc := bidding.NewBiddingService(repo, publisher, cfg.AllowOwnerBid)
	listingSvc := listing.NewListingService(repo, publisher, cfg.OpenCommentDelete)

	router := server.SetupRouter(authSvc, biddingSvc, listingSvc, cfg.JWTSecret)

	port := getPort(cfg)
	utils.Info("Starting auction server", map[string]any{"port": port})
	if err := router.Run(port); err != nil {
		utils.Error("Failed to start server", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// buildRepo selects MySQL when a DSN is configured, otherwise the
// in-memory store
func buildRepo(cfg *config.Config) (repository.AuctionDB, error) {
	if cfg.MySQLDSN != "" {
		utils.Info("Using MySQL storage", nil)
		return repository.NewMySQLRepo(cfg.MySQLDSN)
	}
	utils.Info("Using in-memory storage", nil)
	return repository.NewMemoryRepo(), nil
}

// buildPublisher connects to RabbitMQ when configured, otherwise events
// are dropped
func buildPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewRabbitMQPublisher(cfg.AMQPURL)
	if err != nil {
		utils.Warn("RabbitMQ unavailable, events disabled", map[string]any{"error": err.Error()})
		return events.NoopPublisher{}
	}
	return publisher
}

// seedCategories ensures the configured categories exist; duplicates
// across restarts are skipped
func seedCategories(repo repository.AuctionDB, names []string) {
	for _, name := range names {
		if _, err := repo.GetCategoryByName(name); err == nil {
			continue
		}
		category := model.Category{CategoryID: utils.GenerateID(), Name: name}
		if err := repo.CreateCategory(category); err != nil {
			utils.Warn("Failed to seed category", map[string]any{"name": name, "error": err.Error()})
		}
	}
}

// getPort returns the server port from config or defaults to ":8080"
func getPort(cfg *config.Config) string {
	if cfg.Port != "" {
		return fmt.Sprintf(":%s", cfg.Port)
	}
	return ":8080"
}
