package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/harshal4412/ephemeral/internal/client/cache"
	"github.com/harshal4412/ephemeral/internal/client/config"
	"github.com/harshal4412/ephemeral/internal/client/localdb"
	"github.com/harshal4412/ephemeral/internal/client/remote"
	"github.com/harshal4412/ephemeral/internal/client/services"
	"github.com/harshal4412/ephemeral/internal/logging"
)

type App struct {
	config  *config.Config
	auth    services.AuthService
	draft   services.DraftService
	journal services.JournalService
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	store := remote.NewHTTPStore(c.ServerURL, c.APIKey, c.RequestTimeout)

	entryCache := cache.New()
	as := services.NewAuthService(store, db, log)
	es := services.NewEntryService(store, entryCache, log)
	ds := services.NewDraftService(es, as.Current, c.SavedAckInterval)
	js := services.NewJournalService(as, es, ds, entryCache, log)

	return &App{
		config:  c,
		auth:    as,
		draft:   ds,
		journal: js,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the persisted session, greets the writer and hands control
// to the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.auth.Close(ctx)
	defer a.journal.Stop()

	if err := a.journal.Start(ctx); err != nil {
		return err
	}

	printlnFn(services.Greeting(time.Now()))
	printlnFn("Ephemeral CLI (type 'help' for commands)")

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.auth.Current() != nil
}

// status is the prompt fragment showing who is signed in and whether the
// last save was just acknowledged.
func (a *App) status() string {
	s := ""
	if ident := a.auth.Current(); ident != nil {
		s = ident.Email
	}
	if a.draft.Snapshot().Saved {
		if s != "" {
			s += " "
		}
		s += "saved!"
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}
