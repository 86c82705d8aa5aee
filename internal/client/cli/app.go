package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/client"
	"github.com/dmitrijs2005/kodex/internal/client/config"
	"github.com/dmitrijs2005/kodex/internal/client/services"
	"github.com/dmitrijs2005/kodex/internal/logging"
	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/dmitrijs2005/kodex/internal/qrcode"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config    *config.Config
	repos     *client.Repositories
	apiClient client.Client
	qr        services.QRService
	history   services.HistoryService
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	tty       bool

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database and wires the services. Without a
// configured server the app runs with sync disabled.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	repos, err := client.OpenRepositories(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	fg, err := qrcode.ParseColor(c.Foreground)
	if err != nil {
		_ = repos.DB.Close()
		return nil, err
	}

	qr := services.NewQRService(repos.History, services.QROptions{
		OutputDir:  c.OutputDir,
		Size:       c.ImageSize,
		Foreground: fg,
		MaxLength:  c.MaxPayloadLength,
		Labels:     payload.DefaultLabels,
	}, l)

	a := &App{
		config: c,
		repos:  repos,
		qr:     qr,
		logger: l.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		tty:    isTerminal(int(os.Stdout.Fd())),
		mode:   ModeDisabled,
	}

	if c.Online() {
		gc, err := client.NewGRPCClient(c.ServerEndpointAddr, c.AccessToken)
		if err != nil {
			_ = repos.DB.Close()
			return nil, fmt.Errorf("sync client: %w", err)
		}
		gc.SetTimeout(c.RequestTimeout)
		a.apiClient = gc
		a.mode = ModeOffline
	}

	a.history = services.NewHistoryService(repos, a.apiClient, qr, l)
	return a, nil
}

// Close releases the server connection and the database.
func (a *App) Close() error {
	if a.apiClient != nil {
		_ = a.apiClient.Close()
	}
	if a.repos != nil {
		return a.repos.DB.Close()
	}
	return nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "mode switched", "mode", mode)
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.Mode())
}

// Run starts the connectivity watcher when a server is configured and blocks
// in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.apiClient != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	printlnFn("Welcome to kodex (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.apiClient.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
