package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/pairgrid/pairgrid/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagDataDir     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play remotely.

Each SSH user gets their own save file under the data directory, keyed by
username. Attempt history is shared per server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at <data-dir>/host_key

Environment:
  PAIRGRID_SSH_ADDRESS      - Listen address
  PAIRGRID_SSH_HOST_KEY     - Host key path
  PAIRGRID_DATA_DIR         - Data directory for saves and host key
  PAIRGRID_HISTORY_DB       - History database path
  PAIRGRID_SSH_IDLE_TIMEOUT - Idle timeout (e.g. 30m)

Flags override environment variables.

Examples:
  pairgrid serve                           # Listen on :23234
  pairgrid serve --ssh :2222               # Listen on port 2222
  pairgrid serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.pairgrid", "Data directory for per-user saves")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := tui.DefaultSSHServerConfig()

	// Environment overrides defaults
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment
	if cmd.Flags().Changed("ssh") {
		cfg.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting pairgrid SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
