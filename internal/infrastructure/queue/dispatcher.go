package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher delivers audit records to a fixed set of workers using
// consistent hashing on the username, so the records of one account are
// persisted in the order they were produced.
type AuditDispatcher struct {
	workers []chan domain.AuditRecord
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
	onDrop  func(domain.AuditRecord)
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditRecord, channelBuffer)
	}
	return d
}

// OnDrop registers a callback invoked for every record discarded because its
// worker queue was full. It must be set before Start.
func (d *AuditDispatcher) OnDrop(fn func(domain.AuditRecord)) {
	d.onDrop = fn
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop once ctx is cancelled; Wait blocks until they have.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a record to the worker responsible for its username. It
// never blocks the request path: when the worker queue is full the record is
// dropped and logged.
func (d *AuditDispatcher) Enqueue(rec domain.AuditRecord) {
	select {
	case d.workers[d.shardIndex(rec.Username)] <- rec:
	default:
		d.log.Warn().
			Str("action", string(rec.Action)).
			Str("username", rec.Username).
			Msg("audit queue full, record dropped")
		if d.onDrop != nil {
			d.onDrop(rec)
		}
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case rec := <-ch:
			d.persist(ctx, id, rec)
		}
	}
}

// drain flushes records queued before shutdown using a detached context.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.AuditRecord) {
	ctx := context.Background()
	for {
		select {
		case rec := <-ch:
			d.persist(ctx, id, rec)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) persist(ctx context.Context, id int, rec domain.AuditRecord) {
	if err := d.repo.Insert(ctx, rec); err != nil {
		d.log.Error().Err(err).
			Str("action", string(rec.Action)).
			Str("username", rec.Username).
			Int("worker_id", id).
			Msg("audit record not persisted")
	}
}
