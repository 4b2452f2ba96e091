// Package audit registra en segundo plano las acciones confirmadas y expone la
// consulta del log para administradores.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
	"github.com/jhoicas/military-assets-api/pkg/logger"
)

var _ inventory.AuditSink = (*Recorder)(nil)

// Recorder implementa AuditSink con una cola acotada y un worker que persiste las
// entradas. Record nunca bloquea: con la cola llena la entrada se descarta y se loguea.
// Los fallos de escritura se loguean y no se propagan.
type Recorder struct {
	repo         repository.AuditLogRepository
	log          *logger.Logger
	writeTimeout time.Duration

	mu     sync.RWMutex
	queue  chan entity.AuditLogEntry
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder crea el recorder y arranca su worker.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger, queueSize int, writeTimeout time.Duration) *Recorder {
	if queueSize <= 0 {
		queueSize = 1
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Recorder{
		repo:         repo,
		log:          log,
		writeTimeout: writeTimeout,
		queue:        make(chan entity.AuditLogEntry, queueSize),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record encola la entrada.
func (r *Recorder) Record(_ context.Context, entry entity.AuditLogEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.Warn().Str("action", entry.Action).Str("entity_id", entry.EntityID).Msg("auditoría cerrada, entrada descartada")
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	select {
	case r.queue <- entry:
	default:
		r.log.Error().Str("action", entry.Action).Str("entity_id", entry.EntityID).Msg("cola de auditoría llena, entrada descartada")
	}
}

// Close deja de aceptar entradas y espera a que el worker vacíe la cola.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.queue {
		r.write(entry)
	}
}

func (r *Recorder) write(entry entity.AuditLogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()
	if err := r.repo.Create(ctx, &entry); err != nil {
		r.log.Error().Err(err).
			Str("user_id", entry.UserID).
			Str("action", entry.Action).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("fallo al registrar auditoría")
	}
}
