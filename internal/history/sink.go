// Package history persists every entity received from a service to a
// durable store. The sink is a terminal listener: it writes, logs, and
// never feeds anything back into the pipeline.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixedstream/bondoffice/internal/service"
	"github.com/fixedstream/bondoffice/pkg/metrics"
)

// Record is one persisted entity snapshot keyed by the same identifier the
// owning service uses. Re-publishing a key appends a new row, so the table
// is an append-only history rather than a mirror of current state.
type Record struct {
	ID        uint   `gorm:"primaryKey"`
	Service   string `gorm:"index:idx_history_service_key"`
	Key       string `gorm:"index:idx_history_service_key"`
	Payload   string
	CreatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (Record) TableName() string { return "history_records" }

// Migrate creates the history table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{})
}

// Sink writes entities of one service to the store.
type Sink[V any] struct {
	logger  *zap.Logger
	db      *gorm.DB
	service string
	keyFn   func(V) string
}

// NewSink creates a sink for the named service. keyFn extracts the
// persistence key from an entity.
func NewSink[V any](logger *zap.Logger, db *gorm.DB, serviceName string, keyFn func(V) string) *Sink[V] {
	return &Sink[V]{
		logger:  logger,
		db:      db,
		service: serviceName,
		keyFn:   keyFn,
	}
}

// PersistData writes one entity snapshot and logs the write.
func (s *Sink[V]) PersistData(key string, v V) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("history %s: marshal %q: %w", s.service, key, err)
	}

	rec := Record{Service: s.service, Key: key, Payload: string(payload)}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("history %s: persist %q: %w", s.service, key, err)
	}

	metrics.HistoryWrites.WithLabelValues(s.service).Inc()
	s.logger.Info("persisted entity",
		zap.String("service", s.service),
		zap.String("key", key))
	return nil
}

// History returns all persisted snapshots for a key as raw JSON rows,
// oldest first.
func (s *Sink[V]) History(key string) ([]Record, error) {
	var rows []Record
	err := s.db.Where("service = ? AND key = ?", s.service, key).
		Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("history %s: load %q: %w", s.service, key, err)
	}
	return rows, nil
}

// Listener adapts the sink to the service listener contract; every add and
// update is persisted.
func Listener[V any](s *Sink[V]) service.Listener[V] {
	persist := func(v V) error {
		return s.PersistData(s.keyFn(v), v)
	}
	return service.ListenerFuncs[V]{
		OnAdd:    persist,
		OnUpdate: persist,
	}
}
