package catalog

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the catalog whenever its extension file changes, until ctx is
// done. Reload failures are logged and the previous view stays in effect.
// Returns immediately when the catalog has no extension file.
func (c *Catalog) Watch(ctx context.Context, log zerolog.Logger) error {
	if c.extPath == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(c.extPath); err != nil {
		return err
	}
	log.Info().Str("path", c.extPath).Msg("watching catalog extension")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := c.Reload(); err != nil {
				log.Warn().Err(err).Msg("catalog reload failed, keeping previous view")
				continue
			}
			log.Info().Int("models", c.Len()).Msg("catalog reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}
