package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Firestore wraps the shared Firestore client. It is built once in main and handed to
// every repository; Close releases the underlying gRPC connections.
type Firestore struct {
	Client *firestore.Client
}

// New initialises the Firebase app from the service-account key file and opens a client.
func New(ctx context.Context, cfg config.Config) (*Firestore, error) {
	if err := config.CheckCredentials(cfg.FirebaseCredFile); err != nil {
		return nil, err
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.FirebaseCredFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore client: %w", err)
	}

	fs := &Firestore{Client: client}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := fs.Health(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("firestore ping failed: %w", err)
	}
	return fs, nil
}

// NewWithClient wraps an existing client (used against the emulator in tests).
func NewWithClient(client *firestore.Client) *Firestore {
	return &Firestore{Client: client}
}

func (f *Firestore) Close() error {
	if f.Client != nil {
		return f.Client.Close()
	}
	return nil
}

// Health issues a one-document read against the settings collection.
func (f *Firestore) Health(ctx context.Context) error {
	it := f.Client.Collection("settings").Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}
