// Command settheme writes a store's theme (palette, dark mode, logo) straight into the
// settings collection.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/config"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	exitUsage       = 1
	exitLogoMissing = 2
	exitSaveFailed  = 3
)

// openThemes returns the theme service and a func releasing its backend.
type openThemes func(ctx context.Context, logger *slog.Logger) (service.ThemeService, func() error, error)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	app := newApp(firestoreThemes, os.Stdout, logger)
	os.Exit(exitCode(app.Run(os.Args)))
}

func newApp(open openThemes, out io.Writer, logger *slog.Logger) *cli.App {
	return &cli.App{
		Name:      "settheme",
		Usage:     "save a store theme to Firestore",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store-id", Usage: "store document id", Required: true},
			&cli.StringFlag{Name: "logo-path", Usage: "logo image file", Required: true},
			&cli.StringFlag{Name: "palette", Usage: "comma separated colors, at most six are kept"},
			&cli.BoolFlag{Name: "dark", Usage: "enable dark mode"},
		},
		// exit codes are decided in main
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			logoPath := c.String("logo-path")
			logo, err := os.ReadFile(logoPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return cli.Exit(fmt.Sprintf("logo not found: %s", logoPath), exitLogoMissing)
				}
				return cli.Exit(fmt.Sprintf("read logo: %v", err), exitUsage)
			}

			palette := service.ParsePalette(c.String("palette"))
			if len(palette) == 0 {
				palette = service.DefaultPalette()
			}

			themes, closeFn, err := open(c.Context, logger)
			if err != nil {
				return cli.Exit(fmt.Sprintf("open firestore: %v", err), exitUsage)
			}
			defer func() {
				if err := closeFn(); err != nil {
					logger.Warn("close firestore", "err", err)
				}
			}()

			storeID := c.String("store-id")
			if err := themes.SaveTheme(c.Context, storeID, palette, c.Bool("dark"), logo); err != nil {
				return cli.Exit(fmt.Sprintf("save theme: %v", err), exitSaveFailed)
			}
			fmt.Fprintf(c.App.Writer, "theme saved for store %s\n", storeID)
			return nil
		},
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		fmt.Fprintln(os.Stderr, coder.Error())
		return coder.ExitCode()
	}
	fmt.Fprintln(os.Stderr, err)
	return exitUsage
}

func firestoreThemes(ctx context.Context, logger *slog.Logger) (service.ThemeService, func() error, error) {
	cfg := config.Config{
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredFile:  config.CredentialsPath(),
	}
	fs, err := db.New(ctx, cfg)
	if err != nil {
		return service.ThemeService{}, nil, err
	}
	return service.ThemeService{
		Settings: repository.SettingsRepository{DB: fs},
		Logger:   logger,
	}, fs.Close, nil
}
