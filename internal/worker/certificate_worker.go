package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	certificatePollTimeout = time.Second
	certificateRetryDelay  = 5 * time.Second
)

// CertificateRenderer writes the certificate of an approved request to storage.
type CertificateRenderer interface {
	RenderToFile(ctx context.Context, requestID string) error
}

// CertificateWorker consumes the render queue and pre-renders certificates so
// downloads can be served from disk.
type CertificateWorker struct {
	queue    Queue
	renderer CertificateRenderer
	log      zerolog.Logger
	// retryDelay is the pause after a failed render before the next pop.
	retryDelay time.Duration
}

// NewCertificateWorker creates a new CertificateWorker.
func NewCertificateWorker(queue Queue, renderer CertificateRenderer, log zerolog.Logger) *CertificateWorker {
	return &CertificateWorker{
		queue:      queue,
		renderer:   renderer,
		log:        log.With().Str("component", "certificate_worker").Logger(),
		retryDelay: certificateRetryDelay,
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *CertificateWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *CertificateWorker) processNext(ctx context.Context) {
	id, ok, err := w.queue.Pop(ctx, certificatePollTimeout)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Pop error")
		}
		return
	}
	if !ok {
		return
	}

	if err := w.renderer.RenderToFile(ctx, id); err != nil {
		w.log.Error().Err(err).Str("request_id", id).Msg("Render error, certificate will be rendered on download")
		sleep(ctx, w.retryDelay)
		return
	}
	w.log.Debug().Str("request_id", id).Msg("Certificate rendered")
}

// drain renders everything still queued before shutdown.
func (w *CertificateWorker) drain(ctx context.Context) {
	drained := 0
	for {
		id, ok, err := w.queue.TryPop(ctx)
		if err != nil || !ok {
			break
		}
		if err := w.renderer.RenderToFile(ctx, id); err != nil {
			w.log.Error().Err(err).Str("request_id", id).Msg("Drain render error")
			continue
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
