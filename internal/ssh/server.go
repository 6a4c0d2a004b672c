package ssh

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bts "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/chatnary/chatnary/internal/config"
)

// Server serves the viewer over SSH.
type Server struct {
	server *ssh.Server
	logger *log.Logger
}

// HostKeyPath is where the server's host key is generated on first start.
func HostKeyPath(cfg config.Config) string {
	return filepath.Join(cfg.StateDir(), "ssh_host_key")
}

// New creates the SSH server. Nothing listens until ListenAndServe.
func New(cfg config.Config, logger *log.Logger) (*Server, error) {
	s, err := wish.NewServer(
		wish.WithAddress(cfg.Listen),
		wish.WithHostKeyPath(HostKeyPath(cfg)),
		wish.WithMiddleware(
			closeSession,
			bts.Middleware(NewHandler(cfg, logger)),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	return &Server{server: s, logger: logger}, nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe blocks until the server is shut down. A clean shutdown
// returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for sessions to end or ctx
// to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.server.Close()
}
