package main

import (
	"os"

	"github.com/joho/godotenv"

	"bmac/internal/cli"
)

func main() {
	// .env is a local-development convenience, absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
