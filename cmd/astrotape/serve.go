package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/platform/tui"
)

var (
	flagSSHHost    string
	flagSSHPort    int
	flagSSHHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over SSH",
	Long: `Start an SSH server that lets remote users play. Each connection
plays under its SSH username; all finished tapes land in the shared run
database, so the leaderboard is server-wide and every entry on it can be
re-verified.

Host key handling:
  - If --host-key is provided, that key file is used
  - Otherwise the config's host_key_path, or an auto-generated key at
    ~/.astrotape/host_key

Examples:
  astrotape serve
  astrotape serve --port 2222
  astrotape serve --host-key ./my_host_key

Users connect with:
  ssh <server> -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntVar(&flagSSHPort, "port", 0, "Listen port (overrides config)")
	serveCmd.Flags().StringVar(&flagSSHHostKey, "host-key", "", "Path to host key file (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSSHHost != "" {
		cfg.Serve.Host = flagSSHHost
	}
	if flagSSHPort != 0 {
		cfg.Serve.Port = flagSSHPort
	}
	if flagSSHHostKey != "" {
		cfg.Serve.HostKeyPath = flagSSHHostKey
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting astrotape SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
