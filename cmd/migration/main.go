package main

import (
	"os"

	logger "github.com/Bparsons0904/goLogger"
)

func main() {
	log := logger.New("migrations").Function("main")

	if err := rootCmd.Execute(); err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}
}
