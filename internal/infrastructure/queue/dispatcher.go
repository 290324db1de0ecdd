package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront-api/internal/core/ports"
	"github.com/shopfront/storefront-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher persists status change events off the request path. Events
// are sharded by order id with consistent hashing, so the audit trail of one
// order is written in the order the changes were applied.
type AuditDispatcher struct {
	workers []chan ports.StatusChangeEvent
	store   ports.StatusEventRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, store ports.StatusEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan ports.StatusChangeEvent, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusChangeEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands the event to the worker that owns its order. A full worker
// channel drops the event with a warning rather than stalling the request.
func (d *AuditDispatcher) Enqueue(event ports.StatusChangeEvent) {
	idx := d.shardIndex(event.OrderID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.log.Warn().
			Str("order_id", event.OrderID).
			Int("worker_id", idx).
			Msg("audit queue full, dropping status event")
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusChangeEvent) {
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.persist(ctx, id, event)
		}
	}
}

func (d *AuditDispatcher) persist(ctx context.Context, id int, event ports.StatusChangeEvent) {
	start := time.Now()
	err := d.store.InsertStatusEvent(ctx, event)

	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("order_id", event.OrderID).
			Str("to", string(event.To)).
			Int("worker_id", id).
			Msg("status audit write failed")
	}
	metrics.AuditWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
