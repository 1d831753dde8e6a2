package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

const (
	recorderQueue   = 16
	recorderTimeout = 30 * time.Second
)

// Recorder archives schemas in the background so request handlers never
// wait on MongoDB. Record enqueues and returns immediately; when the
// queue is full the schema is dropped and a warning is logged.
type Recorder struct {
	archive Archive
	logger  *log.Logger

	queue chan *schema.Schema
	done  chan struct{}
	once  sync.Once
}

// NewRecorder starts a recorder draining into the archive. Close stops it.
func NewRecorder(archive Archive, logger *log.Logger) *Recorder {
	r := &Recorder{
		archive: archive,
		logger:  logger,
		queue:   make(chan *schema.Schema, recorderQueue),
		done:    make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues a schema for archival without blocking.
func (r *Recorder) Record(s *schema.Schema) {
	select {
	case r.queue <- s:
	default:
		r.logger.Warn("snapshot queue full, dropping schema")
	}
}

// Close stops accepting schemas, archives everything still queued, and
// returns after the worker has exited. The archive itself is not closed.
func (r *Recorder) Close() {
	r.once.Do(func() { close(r.queue) })
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)
	for s := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recorderTimeout)
		snap, err := r.archive.Save(ctx, s)
		cancel()
		if err != nil {
			r.logger.Error("archive schema snapshot", "err", err)
			continue
		}
		r.logger.Debug("archived schema snapshot",
			"id", snap.ID, "hash", snap.Hash[:12], "models", snap.ModelCount)
	}
}
