package main

import (
	"os"

	"github.com/TEEs-projects/testchain/internal/logger"
)

func main() {
	logger.Init()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("SYS", "%v", err)
		os.Exit(1)
	}
}
