package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/laspawn/market-bot/bot"
	"github.com/laspawn/market-bot/config"
	"github.com/laspawn/market-bot/db"
	"github.com/laspawn/market-bot/market"
	"github.com/laspawn/market-bot/store"
	"github.com/laspawn/market-bot/updater"
)

func main() {
	// Load configuration
	cfg := config.NewConfig()

	// Open the user registry
	users, err := db.NewDatabase(cfg.UsersDBPath)
	if err != nil {
		log.Fatalf("Failed to open user registry: %v", err)
	}
	defer users.Close()

	// Load marketplace state from disk before serving any command
	repo := market.NewRepository(store.NewStore(cfg.WarnsFile, cfg.OffersFile))

	// Initialize the bot
	marketBot, err := bot.NewBot(cfg, repo, users)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	// Start the self-update loop
	if cfg.SelfUpdate {
		stop := make(chan struct{})
		defer close(stop)
		go updater.NewUpdater(cfg.UpdateInterval, cfg.UpdateBranch, func() {
			// The process supervisor restarts us
			os.Exit(0)
		}).Run(stop)
	}

	log.Println("Bot started...")
	marketBot.Start()
}
