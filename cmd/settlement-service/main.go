package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LavaJover/shvark-settlement-service/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

var configPath string

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	rootCmd := &cobra.Command{
		Use:     "settlement-service",
		Short:   "Property sale settlement and commission engine",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SETTLEMENT_CONFIG_PATH"), "path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.SettlementConfig, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config path not set: use --config or SETTLEMENT_CONFIG_PATH")
	}
	return config.Load(configPath)
}
