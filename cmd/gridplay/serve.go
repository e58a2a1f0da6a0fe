package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridplay/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game menu over SSH",
	Long: `Serve the interactive menu to anyone who connects with an SSH client.

Every connection gets its own menu, game and history screens. All
connections record into the same episode database, so the history is
shared. The host key is created on first start when it does not exist.

Examples:
  gridplay serve
  gridplay serve --ssh :2222 --idle-timeout 10m
  gridplay serve --host-key /etc/gridplay/host_key --db /var/lib/gridplay/episodes.db

Then connect with:
  ssh -p 23234 localhost`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "Listen address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Host key file (default ~/.gridplay/host_key)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", defaults.IdleTimeout, "Disconnect clients idle for this long")
}

func runServe(_ *cobra.Command, _ []string) {
	play := loadConfig()
	logger, closeLog := newLogger(false)
	defer closeLog()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      dbPath(play),
		IdleTimeout: flagIdleTimeout,
		Play:        play,
		Logger:      logger.WithPrefix("gridplay-ssh"),
	})
	if err != nil {
		fail("%v", err)
	}

	logger.Info("press ctrl+c to stop", "address", server.Addr())
	if err := server.ListenAndServe(); err != nil {
		fail("%v", err)
	}
}
