// FIXƆ TUI - terminal assistant de dépannage informatique.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/fixo-tui/internal/catalog"
	"github.com/jeranaias/fixo-tui/internal/chat"
	"github.com/jeranaias/fixo-tui/internal/config"
	"github.com/jeranaias/fixo-tui/internal/core"
	"github.com/jeranaias/fixo-tui/internal/export"
	"github.com/jeranaias/fixo-tui/internal/lite"
	"github.com/jeranaias/fixo-tui/internal/storage"
	"github.com/jeranaias/fixo-tui/internal/ui"
	"github.com/jeranaias/fixo-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "", "chemin du fichier de configuration")
		modeFlag   = flag.String("mode", "", "mode de démarrage (lite, core, pro)")
		catPath    = flag.String("catalogue", "", "chemin ou URL du catalogue de problèmes")
		exportFmt  = flag.String("export", "", "exporter la conversation enregistrée (markdown, html, json) et quitter")
		version    = flag.Bool("version", false, "afficher la version")
	)
	flag.Parse()

	if *version {
		fmt.Printf("fixo-tui %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if *exportFmt != "" {
		if err := runExport(*exportFmt); err != nil {
			fmt.Fprintf(os.Stderr, "Erreur : %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "fixo-tui nécessite un terminal interactif")
		os.Exit(1)
	}

	if err := run(*configPath, *modeFlag, *catPath); err != nil {
		fmt.Fprintf(os.Stderr, "Erreur : %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, modeFlag, catPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if modeFlag != "" {
		cfg.Mode = modeFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if catPath != "" {
		cfg.Catalogue.Source = catPath
	}

	logger, closeLog := openLogger()
	defer closeLog()

	statePath, err := storage.DefaultPath()
	if err != nil {
		return err
	}
	store, err := storage.Open(statePath)
	if err != nil {
		return err
	}

	// Persisted preferences win over config-file defaults.
	mode := cfg.Mode
	if v, ok := store.GetString(storage.KeyMode); ok {
		mode = v
	}
	theme := cfg.Theme
	if v, ok := store.GetString(storage.KeyTheme); ok {
		theme = v
	}
	providerName := cfg.Provider
	if v, ok := store.GetString(storage.KeyProvider); ok {
		providerName = v
	}

	cat := catalog.LoadOrEmpty(logger, cfg.Catalogue.Source)
	liteEngine := lite.New(cat)

	provider, ok := core.ParseProvider(providerName)
	if !ok {
		provider = core.ProviderGroq
	}
	coreClient := core.NewClient(provider, apiKey(store, providerName))

	session := chat.NewSession(chat.Options{
		Lite:   liteEngine,
		Core:   coreClient,
		Store:  store,
		Logger: logger,
		Mode:   mode,
		Typing: cfg.Typing,
	})

	th := styles.NewTheme(theme)
	m := ui.New(session, store, cfg, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Reload the catalogue when the file changes on disk.
	if cfg.Catalogue.Watch && cfg.Catalogue.Source != "" {
		watcher, werr := catalog.NewWatcher(cfg.Catalogue.Source, logger, func(c *catalog.Catalog) {
			liteEngine.SetCatalog(c)
			p.Send(ui.CatalogReloadedMsg{Count: c.Len()})
		})
		if werr != nil {
			logger.Printf("catalogue watcher disabled: %v", werr)
		} else {
			defer watcher.Close()
		}
	}

	_, err = p.Run()
	return err
}

// runExport writes the persisted conversation to a file in the working
// directory and prints its path.
func runExport(format string) error {
	statePath, err := storage.DefaultPath()
	if err != nil {
		return err
	}
	store, err := storage.Open(statePath)
	if err != nil {
		return err
	}
	path, err := exportHistory(store, format, nil)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// exportHistory turns the persisted history into an export file in the
// requested format.
func exportHistory(store *storage.Store, format string, opts *export.Options) (string, error) {
	msgs := storage.RestoreMessages(store.History())
	if len(msgs) == 0 {
		return "", fmt.Errorf("aucune conversation enregistrée")
	}
	conv := export.NewConversation(store.Mode(), msgs)
	return export.ToFormat(conv, format, opts)
}

// loadConfig reads the configuration from the explicit path or the
// default locations.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// openLogger writes diagnostics to ~/.fixo/fixo.log; the TUI owns the
// terminal, so nothing may log to stderr while it runs.
func openLogger() (*log.Logger, func()) {
	dir, err := config.Dir()
	if err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "fixo.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }
}

// apiKey resolves the completion key: environment first, then the
// preference store.
func apiKey(store *storage.Store, provider string) string {
	if key := os.Getenv("FIXO_API_KEY"); key != "" {
		return key
	}
	return store.APIKey(provider)
}
