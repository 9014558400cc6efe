package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/config"
	"github.com/anonymoize/madokami/internal/source/madokami"
	"github.com/anonymoize/madokami/internal/ui"
	"github.com/anonymoize/madokami/internal/util"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagUsername     string
	flagPassword     string
	flagUserAgent    string
)

var rootCmd = &cobra.Command{
	Use:   "madokami",
	Short: "Browse and download manga from manga.madokami.al",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "site username (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "site password (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildSource wires config, logger, HTTP client and the adapter for a
// command invocation.
func buildSource(extra config.Options) (*config.Config, *ui.Logger, *madokami.Madokami, error) {
	extra.IgnoreConfig = flagIgnoreConfig
	extra.Debug = extra.Debug || flagDebug
	if extra.Username == "" {
		extra.Username = flagUsername
	}
	if extra.Password == "" {
		extra.Password = flagPassword
	}
	if extra.UserAgent == "" {
		extra.UserAgent = flagUserAgent
	}

	cfg, _, err := config.LoadMerged(extra)
	if err != nil {
		return nil, nil, nil, err
	}

	log := ui.NewLogger(cfg.Debug)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		CFBypass:    cfg.CFBypass,
		DebugLogger: log,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, madokami.New(client, cfg), nil
}
