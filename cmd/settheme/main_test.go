package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository/memory"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refusingSettings struct{ memory.Settings }

func (refusingSettings) Merge(context.Context, string, domain.ThemeSettings) error {
	return errors.New("permission denied")
}

func memoryThemes(mem *memory.DB, failSave bool) openThemes {
	return func(_ context.Context, logger *slog.Logger) (service.ThemeService, func() error, error) {
		svc := service.ThemeService{Settings: mem.Settings(), Logger: logger}
		if failSave {
			svc.Settings = refusingSettings{mem.Settings()}
		}
		return svc, mem.Close, nil
	}
}

func runApp(t *testing.T, open openThemes, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := newApp(open, &out, logger)
	return exitCode(app.Run(append([]string{"settheme"}, args...))), out.String()
}

func TestSetTheme_Saves(t *testing.T) {
	mem := memory.New()
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("png"), 0o644))

	code, out := runApp(t, memoryThemes(mem, false),
		"--store-id", "s1", "--logo-path", logo, "--palette", "#111111,#222222", "--dark")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "theme saved for store s1")

	stored, err := mem.Settings().Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"#111111", "#222222"}, stored.Palette)
	require.NotNil(t, stored.DarkMode)
	assert.True(t, *stored.DarkMode)
	require.NotNil(t, stored.LogoB64)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png")), *stored.LogoB64)
}

func TestSetTheme_DefaultPalette(t *testing.T) {
	mem := memory.New()
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("png"), 0o644))

	code, _ := runApp(t, memoryThemes(mem, false), "--store-id", "s1", "--logo-path", logo)
	assert.Equal(t, 0, code)

	stored, err := mem.Settings().Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, service.DefaultPalette(), stored.Palette)
}

func TestSetTheme_ExitCodes(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("png"), 0o644))

	code, _ := runApp(t, memoryThemes(memory.New(), false), "--store-id", "s1", "--logo-path", filepath.Join(t.TempDir(), "nope.png"))
	assert.Equal(t, exitLogoMissing, code)

	code, _ = runApp(t, memoryThemes(memory.New(), true), "--store-id", "s1", "--logo-path", logo)
	assert.Equal(t, exitSaveFailed, code)

	code, _ = runApp(t, memoryThemes(memory.New(), false), "--logo-path", logo)
	assert.Equal(t, exitUsage, code)
}
