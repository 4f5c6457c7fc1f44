package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/ports"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
)

// PlaceholderLogoB64 is a 1x1 transparent PNG.
const PlaceholderLogoB64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMAA2QkAAAAAElFTkSuQmCC"

var defaultPalette = []string{"#212A3E", "#59788E", "#F28C4F", "#F2F1D9", "#44A4AA", "#FFFFFF"}

// local logo candidates, relative to AssetsDir
var logoCandidates = []string{
	filepath.Join("assets", "logo.png"),
	filepath.Join("assets", "logo.jpg"),
	"logo.png",
	"logo.jpg",
}

// DefaultPalette returns a copy of the built-in palette.
func DefaultPalette() []string {
	return append([]string(nil), defaultPalette...)
}

// DefaultTheme is used when nothing is stored.
func DefaultTheme() domain.Theme {
	return domain.Theme{Palette: DefaultPalette(), DarkMode: false, LogoB64: PlaceholderLogoB64}
}

type ThemeService struct {
	Settings ports.SettingsStore
	// AssetsDir is searched for a local logo; empty means the working directory.
	AssetsDir string
	Logger    *slog.Logger
}

// SaveTheme merges palette (first six colors), dark mode and, when given, the logo into
// the store's settings document. Logo size is not limited.
func (s ThemeService) SaveTheme(ctx context.Context, storeID string, palette []string, darkMode bool, logo []byte) error {
	if storeID == "" {
		return ErrMissingFields
	}
	if len(palette) > domain.MaxPaletteColors {
		palette = palette[:domain.MaxPaletteColors]
	}
	settings := domain.ThemeSettings{
		Palette:  append([]string{}, palette...),
		DarkMode: &darkMode,
	}
	if len(logo) > 0 {
		encoded := base64.StdEncoding.EncodeToString(logo)
		settings.LogoB64 = &encoded
	}
	if err := s.Settings.Merge(ctx, storeID, settings); err != nil {
		s.Logger.Error("save theme failed", "store_id", storeID, "err", err)
		return err
	}
	return nil
}

// LoadTheme never fails: missing values fall back to the defaults, and the logo falls
// back to a local asset file and then to PlaceholderLogoB64.
func (s ThemeService) LoadTheme(ctx context.Context, storeID string) domain.Theme {
	theme := DefaultTheme()
	theme.LogoB64 = ""

	stored, err := s.Settings.Get(ctx, storeID)
	switch {
	case err == nil:
		if len(stored.Palette) > 0 {
			theme.Palette = stored.Palette
			if len(theme.Palette) > domain.MaxPaletteColors {
				theme.Palette = theme.Palette[:domain.MaxPaletteColors]
			}
		}
		if stored.DarkMode != nil {
			theme.DarkMode = *stored.DarkMode
		}
		if stored.LogoB64 != nil {
			theme.LogoB64 = *stored.LogoB64
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		s.Logger.Error("load theme failed", "store_id", storeID, "err", err)
		return DefaultTheme()
	}

	if theme.LogoB64 == "" {
		theme.LogoB64 = s.localLogo()
	}
	if theme.LogoB64 == "" {
		theme.LogoB64 = PlaceholderLogoB64
	}
	return theme
}

func (s ThemeService) localLogo() string {
	for _, name := range logoCandidates {
		path := filepath.Join(s.AssetsDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.Logger.Warn("read local logo failed", "path", path, "err", err)
			}
			continue
		}
		return base64.StdEncoding.EncodeToString(data)
	}
	return ""
}

// ParsePalette splits a comma separated color list, dropping blanks.
func ParsePalette(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// RenderCSS emits the CSS custom properties for a theme.
func RenderCSS(theme domain.Theme) string {
	palette := theme.Palette
	if len(palette) == 0 {
		palette = defaultPalette
	}
	if len(palette) > domain.MaxPaletteColors {
		palette = palette[:domain.MaxPaletteColors]
	}
	background, text := "#FFFFFF", "#000000"
	if theme.DarkMode {
		background, text = "#121212", "#FFFFFF"
	}

	vars := make([]string, 0, len(palette)+2)
	for i, c := range palette {
		vars = append(vars, fmt.Sprintf("--color%d: %s;", i+1, c))
	}
	vars = append(vars, "--background: "+background+";", "--text: "+text+";")
	return ":root {" + strings.Join(vars, " ") + "}"
}
