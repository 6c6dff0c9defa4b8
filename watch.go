package main

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// CatalogReloadedMsg carries a freshly loaded catalog, or the error that
// kept it from loading.
type CatalogReloadedMsg struct {
	Catalog Catalog
	Err     error
}

// configDebounce coalesces the burst of events editors emit on save.
const configDebounce = 150 * time.Millisecond

func readCatalog(path string) CatalogReloadedMsg {
	cfg, err := LoadConfig(path)
	if err != nil {
		return CatalogReloadedMsg{Err: err}
	}
	return CatalogReloadedMsg{Catalog: cfg.Catalog}
}

func reloadCatalogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return readCatalog(path)
	}
}

// watchConfig sends a CatalogReloadedMsg whenever the config file changes,
// until ctx is done. The parent directory is watched because editors
// often replace the file instead of writing it in place.
func watchConfig(ctx context.Context, path string, send func(tea.Msg), log *Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return err
	}

	log = log.Sub("watch")
	target := filepath.Clean(path)

	go func() {
		defer w.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.Debug().Str("op", ev.Op.String()).Msg("config changed")
				if timer == nil {
					timer = time.AfterFunc(configDebounce, func() { send(readCatalog(path)) })
				} else {
					timer.Reset(configDebounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()
	return nil
}
