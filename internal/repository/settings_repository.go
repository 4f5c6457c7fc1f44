package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
)

// SettingsRepository stores one theme document per store, keyed by store id.
type SettingsRepository struct {
	DB *db.Firestore
}

type settingsDoc struct {
	Palette  []string `firestore:"palette"`
	DarkMode *bool    `firestore:"dark_mode"`
	LogoB64  *string  `firestore:"logo_b64"`
}

func (r SettingsRepository) Get(ctx context.Context, storeID string) (*domain.ThemeSettings, error) {
	snap, err := r.DB.Client.Collection(colSettings).Doc(storeID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	var d settingsDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", storeID, err)
	}
	return &domain.ThemeSettings{Palette: d.Palette, DarkMode: d.DarkMode, LogoB64: d.LogoB64}, nil
}

// Merge writes only the fields that are set; other fields in the document survive.
func (r SettingsRepository) Merge(ctx context.Context, storeID string, s domain.ThemeSettings) error {
	data := map[string]any{}
	if s.Palette != nil {
		data["palette"] = s.Palette
	}
	if s.DarkMode != nil {
		data["dark_mode"] = *s.DarkMode
	}
	if s.LogoB64 != nil {
		data["logo_b64"] = *s.LogoB64
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := r.DB.Client.Collection(colSettings).Doc(storeID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("merge settings: %w", err)
	}
	return nil
}
