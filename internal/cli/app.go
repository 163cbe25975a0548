// Package cli is the interactive REPL over a vault session. It owns the
// wiring of the capability implementations (passcode gate, Postgres metadata
// store, S3 blob store) into one session per run.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/docvault/internal/authgate"
	"github.com/dmitrijs2005/docvault/internal/blobstore"
	"github.com/dmitrijs2005/docvault/internal/config"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/dmitrijs2005/docvault/internal/metastore"
	"github.com/dmitrijs2005/docvault/internal/vault"
)

const unlockReason = "unlock your document vault"

type App struct {
	config   *config.Config
	session  *vault.Session
	passcode *authgate.PasscodeAuthenticator
	log      logging.Logger
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stderr)

	db, err := metastore.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("metadata store init error: %w", err)
	}
	repo := metastore.NewPostgresRepository(db)

	blobs := blobstore.NewS3Store(c.S3AccessKey, c.S3SecretKey, c.S3Bucket, c.S3Region, c.S3BaseEndpoint)

	passcode := authgate.NewPasscodeAuthenticator(c.PasscodePath, func(ctx context.Context, reason string) ([]byte, error) {
		return GetPasscode(reason, os.Stdout)
	})
	tokens := authgate.NewTokenSource([]byte(c.UnlockSecret), c.UnlockTokenTTL)
	gate := authgate.NewGate(passcode, tokens, c.OwnerID, unlockReason)

	session := vault.NewSession(c.OwnerID, gate, repo, blobs, logger)

	return &App{
		config:   c,
		session:  session,
		passcode: passcode,
		log:      logger,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isUnlocked() bool {
	return a.session.State() == vault.StateUnlocked
}

func (a *App) status() string {
	return fmt.Sprintf("(%s)", a.session.State())
}

// Run starts the REPL. The session dies with the loop; only remote state
// survives.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the document vault (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
