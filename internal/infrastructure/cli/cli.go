// Package cli is the presentation layer: command wiring, prompts, and
// colored terminal output. All state and sequencing live in the usecases;
// this layer only renders status and forwards input.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/adapters/backend"
	"github.com/0xcro3dile/neurosync-go/internal/adapters/credstore"
	"github.com/0xcro3dile/neurosync-go/internal/adapters/identity"
	"github.com/0xcro3dile/neurosync-go/internal/adapters/localfile"
	"github.com/0xcro3dile/neurosync-go/internal/config"
	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
	"github.com/0xcro3dile/neurosync-go/internal/domain/usecases"
	"github.com/0xcro3dile/neurosync-go/internal/infrastructure/logging"
)

var (
	errText    = color.New(color.FgRed)
	okText     = color.New(color.FgGreen)
	noticeText = color.New(color.FgYellow)
	botText    = color.New(color.FgCyan)
)

// Run executes the neurosync CLI.
func Run(ctx context.Context, argv []string) error {
	root := &cli.Command{
		Name:  "neurosync",
		Usage: "chat with your uploaded documents and manage your notes",
		Commands: []*cli.Command{
			cmdLogin(),
			cmdSignup(),
			cmdLogout(),
			cmdWhoami(),
			cmdDocs(),
			cmdUpload(),
			cmdWatch(),
			cmdChat(),
			cmdNotes(),
		},
	}

	if err := root.Run(ctx, argv); err != nil {
		errText.Fprintln(os.Stderr, "Error:", err.Error())
		return err
	}
	return nil
}

// app bundles the assembled usecases for one command invocation.
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	session     *usecases.AuthSession
	store       *usecases.ChatSessionStore
	pipeline    *usecases.UploadPipeline
	coordinator *usecases.ChatCoordinator
	notes       *usecases.Notes
	files       *localfile.Reader
	cleanup     func()
}

// newApp loads config and wires adapters into the usecases.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.LogFile, cfg.Debug)

	var creds ports.CredentialStore
	var closeStore func()
	sqlite, err := credstore.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		// Degrade to a per-run session rather than refusing to start.
		log.Warn("credential database unavailable, session will not persist", zap.Error(err))
		creds = credstore.NewInMemoryStore()
		closeStore = func() {}
	} else {
		creds = sqlite
		closeStore = func() { sqlite.Close() }
	}

	provider := identity.NewFirebaseProvider(cfg.FirebaseAPIKey)
	client := backend.NewClient(cfg.APIBaseURL, log)

	session := usecases.NewAuthSession(provider, creds, log)
	store := usecases.NewChatSessionStore(session, client, log)
	pipeline := usecases.NewUploadPipeline(session, client, store, printUploadEvent, log)
	coordinator := usecases.NewChatCoordinator(session, client, store, log)
	notes := usecases.NewNotes(session, client, log)

	return &app{
		cfg:         cfg,
		log:         log,
		session:     session,
		store:       store,
		pipeline:    pipeline,
		coordinator: coordinator,
		notes:       notes,
		files:       localfile.NewReader(nil),
		cleanup: func() {
			closeStore()
			_ = log.Sync()
		},
	}, nil
}

// restore resolves the startup identity state before any authorized call.
func (a *app) restore(ctx context.Context) entities.SessionState {
	return a.session.Restore(ctx)
}

// printUploadEvent renders upload pipeline status transitions.
func printUploadEvent(ev usecases.UploadEvent) {
	switch ev.State {
	case usecases.UploadUploading:
		noticeText.Printf("Uploading and processing %s...\n", ev.Filename)
	case usecases.UploadReady:
		okText.Printf("Successfully processed: %s (file id %s)\n", ev.Document.Filename, ev.Document.ID)
	case usecases.UploadFailed:
		errText.Printf("Upload failed: %s\n", ev.Message)
	}
}

func printDocuments(docs []entities.Document) {
	if len(docs) == 0 {
		fmt.Println("No PDFs uploaded yet.")
		return
	}
	for i, d := range docs {
		fmt.Printf("%3d. %s  (%s)\n", i+1, d.Filename, d.ID)
	}
}
