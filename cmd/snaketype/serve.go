package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/snaketype/internal/config"
	"github.com/verte-zerg/snaketype/internal/generator"
	"github.com/verte-zerg/snaketype/internal/model"
	"github.com/verte-zerg/snaketype/internal/store"
	"github.com/verte-zerg/snaketype/internal/tui"
)

const (
	defaultServeHost = "localhost"
	defaultServePort = 2222
	shutdownTimeout  = 5 * time.Second
)

var (
	serveHost    string
	servePort    int
	serveHostKey string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over SSH",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveHost, "host", defaultServeHost, "listen host")
	cmd.Flags().IntVar(&servePort, "port", defaultServePort, "listen port")
	cmd.Flags().StringVar(&serveHostKey, "host-key", "", "SSH host key path (generated if missing)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "host", &serveHost, fileCfg.Serve.Host)
	applyIntConfig(cmd, "port", &servePort, fileCfg.Serve.Port)
	applyStringConfig(cmd, "host-key", &serveHostKey, fileCfg.Serve.HostKey)
	if serveHostKey == "" {
		serveHostKey = config.DefaultHostKeyPath()
	}
	if servePort <= 0 || servePort > 65535 {
		return fmt.Errorf("--port must be between 1 and 65535")
	}

	// Remote players get the config file's practice settings, not local flags.
	practice, err := resolvePractice(nil, fileCfg.Practice)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snaketype",
	})

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	addr := net.JoinHostPort(serveHost, strconv.Itoa(servePort))
	s, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(serveHostKey),
		wish.WithMiddleware(
			bm.Middleware(gameHandler(st, practice, logger)),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting SSH server", "addr", addr, "difficulty", practice.Difficulty, "duration", practice.Duration)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-done:
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	logger.Info("stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// gameHandler starts an independent game per SSH session. Only the store is
// shared between sessions.
func gameHandler(st *store.Store, practice model.PracticeConfig, logger *log.Logger) bm.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "PTY required. Connect with: ssh -t")
			return nil, nil
		}
		weakSet, noticed := loadWeakSet(sess.Context(), st, practice)
		m, err := tui.NewModel(practice, st, generator.New(), weakSet, noticed)
		if err != nil {
			logger.Error("failed to start game", "user", sess.User(), "err", err)
			wish.Fatalln(sess, err)
			return nil, nil
		}
		m.SetSize(pty.Window.Width, pty.Window.Height)
		logger.Info("new game", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)
		return m, []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	}
}
