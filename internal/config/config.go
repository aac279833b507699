package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken     string
	DatabasePath string
	StartBank    int
	MinBet       int
	BetChips     []int
	DealerDelay  time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./twentyone.db"
	}

	return &Config{
		BotToken:     token,
		DatabasePath: dbPath,
		StartBank:    1000,
		MinBet:       5,
		BetChips:     []int{5, 10, 25},
		DealerDelay:  500 * time.Millisecond,
	}, nil
}
