package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TEEs-projects/testchain/internal/config"
	"github.com/TEEs-projects/testchain/internal/logger"
	"github.com/TEEs-projects/testchain/internal/validators"
)

//go:embed config.example.yml
var configExample []byte

var configFile string

var rootCmd = &cobra.Command{
	Use:           "testchain",
	Short:         "Local PoA testbed tooling: generate node setups and decode captured RPC dumps into reports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ~/.testchain/config.yml)")
}

// loadConfig resolves the config path, writing the embedded example on first
// run, and builds the roster from the configured validators.
func loadConfig() (*config.Config, *validators.Roster, error) {
	path, err := resolveConfigPath(configFile)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureDefaultConfig(path, configExample); err != nil {
		return nil, nil, err
	}

	logger.Info("INIT", "Loading config from %s", path)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	roster, err := validators.NewRoster(cfg.Chain.Validators)
	if err != nil {
		return nil, nil, fmt.Errorf("error building validator roster: %w", err)
	}
	logger.Info("INIT", "Roster has %d validators (network id %d)", roster.Size(), cfg.Chain.NetworkID)

	return cfg, roster, nil
}

func resolveConfigPath(configFile string) (string, error) {
	if configFile != "" {
		return filepath.Abs(configFile)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".testchain", "config.yml"), nil
}

func ensureDefaultConfig(path string, example []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if len(example) == 0 {
		return fmt.Errorf("embedded config.example.yml is empty")
	}

	return os.WriteFile(path, example, 0o644)
}
