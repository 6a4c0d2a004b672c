package ssh

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bts "github.com/charmbracelet/wish/bubbletea"

	"github.com/chatnary/chatnary/internal/app"
	"github.com/chatnary/chatnary/internal/config"
)

// appKey stores the session's app in its context until closeSession
// releases it.
type appKey struct{}

// NewHandler returns a Bubble Tea handler for SSH sessions. Each session
// gets its own app, released by closeSession once the program has stopped.
func NewHandler(cfg config.Config, logger *log.Logger) bts.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		sessLogger := logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())

		a, err := app.New(cfg, sessLogger)
		if err != nil {
			sessLogger.Error("start session", "err", err)
			wish.Fatalln(sess, fmt.Sprintf("chatnary: %v", err))
			return nil, nil
		}
		sess.Context().SetValue(appKey{}, a)

		// The middleware adds the session's input, output and environment.
		return a, []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
			tea.WithReportFocus(),
		}
	}
}

// closeSession closes the session's app once its program has returned. It
// must be listed before the Bubble Tea middleware so it runs after it.
func closeSession(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if a, ok := sess.Context().Value(appKey{}).(*app.App); ok {
			a.Close()
			if err := a.Err(); err != nil {
				wish.Errorln(sess, "chatnary:", err)
			}
		}
		next(sess)
	}
}
