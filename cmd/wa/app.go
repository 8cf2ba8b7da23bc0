package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/workattend/wa/pkg/clock"
	"github.com/workattend/wa/pkg/config"
	"github.com/workattend/wa/pkg/entry"
	"github.com/workattend/wa/pkg/logger"
	"github.com/workattend/wa/pkg/store"
)

// app holds shared state for all CLI subcommands.
type app struct {
	cfg   *config.Config
	store store.RecordStore
	clock clock.Clock
	log   zerolog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// interrupts is nil outside track; tests inject their own.
	interrupts <-chan os.Signal
}

// newApp opens the configured record store.
func newApp(cfg *config.Config) (*app, error) {
	log := logger.Named("wa")
	st, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		store:  st,
		clock:  clock.System{},
		log:    log,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}, nil
}

func openStore(cfg *config.Config, log zerolog.Logger) (store.RecordStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := store.NewSQLite(cfg.DB, time.Local)
		if err != nil {
			return nil, fmt.Errorf("cannot open database %q: %w", cfg.DB, err)
		}
		return s, nil
	default:
		return store.NewFile(cfg.DataDir, time.Local, log.With().Str("component", "store").Logger()), nil
	}
}

// Close releases the record store. Safe to call twice.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// resolveDate parses a --date value, defaulting to today.
func (a *app) resolveDate(s string) (time.Time, error) {
	if s == "" {
		return clock.Today(a.clock), nil
	}
	return entry.ParseDate(s, a.clock.Now().Location())
}

// printJSON writes v to out as indented JSON.
func printJSON(out io.Writer, v interface{}) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
