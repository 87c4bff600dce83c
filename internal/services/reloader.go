package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const defaultReloadDebounce = 200 * time.Millisecond

// ArtifactReloader watches the artifact's directory and reloads the
// prediction service when a trainer replaces the file. The directory is
// watched rather than the file because the trainer renames a new file over
// the old one.
type ArtifactReloader struct {
	svc      *PredictionService
	target   string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	// OnReload, when set before Start, is called after each reload attempt.
	OnReload func(err error)

	done chan struct{}
	once sync.Once
}

// NewArtifactReloader creates a watcher on the directory holding the
// service's artifact. Call Start to begin reloading.
func NewArtifactReloader(svc *PredictionService) (*ArtifactReloader, error) {
	target, err := filepath.Abs(svc.ArtifactPath())
	if err != nil {
		return nil, fmt.Errorf("resolve artifact path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create artifact watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	return &ArtifactReloader{
		svc:      svc,
		target:   target,
		watcher:  watcher,
		debounce: defaultReloadDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Start processes watcher events until ctx is cancelled or Close is called.
func (r *ArtifactReloader) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *ArtifactReloader) loop(ctx context.Context) {
	defer close(r.done)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != r.target {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.WithFields(log.Fields{"path": ev.Name, "op": ev.Op.String()}).Debug("Artifact changed")
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			err := r.svc.Reload(ctx)
			if err != nil {
				log.WithError(err).WithField("path", r.target).Warn("Artifact reload failed, keeping previous model")
			}
			if r.OnReload != nil {
				r.OnReload(err)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("Artifact watcher error")
		}
	}
}

// Close stops watching. A started event loop exits once the watcher's
// channels are closed; wait on Done to observe that.
func (r *ArtifactReloader) Close() error {
	var err error
	r.once.Do(func() {
		err = r.watcher.Close()
	})
	return err
}

// Done is closed once the event loop has exited.
func (r *ArtifactReloader) Done() <-chan struct{} { return r.done }
