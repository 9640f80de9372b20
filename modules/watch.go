package modules

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the module set whenever a module file under a root changes,
// calling onReload after each successful rescan. It blocks until the context
// is cancelled. The completion type catalog's Invalidate is the usual
// onReload hook.
func (l *Loader) Watch(ctx context.Context, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range l.roots {
		// Missing roots can appear later; watching them now is not possible,
		// the next Watch call picks them up.
		_ = watcher.Add(root)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !strings.HasSuffix(ev.Name, "."+moduleExt) {
				continue
			}

			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				_ = l.Load()

				if onReload != nil {
					onReload()
				}
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
