// Package service implements the generic keyed store with synchronous
// listener fan-out that every back-office service is built on.
package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/pkg/metrics"
)

// Listener receives synchronous callbacks after a service mutates its table.
// Callbacks run on the publisher's call stack; implementations must not
// retain the value past the callback. Returning an error aborts the
// remaining listeners for that event and propagates to the publisher.
type Listener[V any] interface {
	// ProcessAdd is invoked when a key is published for the first time.
	ProcessAdd(v V) error
	// ProcessUpdate is invoked when an existing key is overwritten.
	ProcessUpdate(v V) error
	// ProcessRemove is part of the contract but exercised by no core
	// component; removal semantics are undefined in this design.
	ProcessRemove(v V) error
}

// ListenerFuncs adapts plain functions to the Listener interface.
// Nil fields are treated as no-ops.
type ListenerFuncs[V any] struct {
	OnAdd    func(v V) error
	OnUpdate func(v V) error
	OnRemove func(v V) error
}

func (l ListenerFuncs[V]) ProcessAdd(v V) error {
	if l.OnAdd == nil {
		return nil
	}
	return l.OnAdd(v)
}

func (l ListenerFuncs[V]) ProcessUpdate(v V) error {
	if l.OnUpdate == nil {
		return nil
	}
	return l.OnUpdate(v)
}

func (l ListenerFuncs[V]) ProcessRemove(v V) error {
	if l.OnRemove == nil {
		return nil
	}
	return l.OnRemove(v)
}

// Service is a keyed in-memory table plus an append-only, ordered listener
// list. The table holds at most one value per key (last write wins) and
// notification order always equals registration order.
//
// The service is deliberately unsynchronized: the propagation model is a
// single synchronous call stack, and multi-threaded ingestion is not
// supported. Callers needing concurrency must serialize outside.
type Service[V any] struct {
	name      string
	logger    *zap.Logger
	data      map[string]V
	listeners []Listener[V]
}

// New creates an empty keyed service. The name labels logs and metrics.
func New[V any](name string, logger *zap.Logger) *Service[V] {
	return &Service[V]{
		name:   name,
		logger: logger.Named(name),
		data:   make(map[string]V),
	}
}

// Name returns the service name used for logs and metrics.
func (s *Service[V]) Name() string { return s.name }

// Publish inserts or overwrites the value for key and synchronously
// notifies every registered listener, in registration order, before
// returning. The first listener error aborts the remaining listeners and is
// returned; earlier listeners stay notified (no isolation, no rollback).
func (s *Service[V]) Publish(key string, value V) error {
	_, existed := s.data[key]
	s.data[key] = value

	event := "add"
	if existed {
		event = "update"
	}
	metrics.EntitiesPublished.WithLabelValues(s.name, event).Inc()

	start := time.Now()
	defer func() {
		metrics.FanoutDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	}()

	for i, l := range s.listeners {
		var err error
		if existed {
			err = l.ProcessUpdate(value)
		} else {
			err = l.ProcessAdd(value)
		}
		if err != nil {
			metrics.ListenerFailures.WithLabelValues(s.name).Inc()
			s.logger.Error("listener failed, aborting fan-out",
				zap.String("key", key),
				zap.Int("listener", i),
				zap.Error(err))
			return err
		}
	}

	s.logger.Debug("published", zap.String("key", key), zap.String("event", event))
	return nil
}

// Get returns the current value for key. Keys that were never published
// fail with *NotFoundError; a zero value is never returned silently.
func (s *Service[V]) Get(key string) (V, error) {
	v, ok := s.data[key]
	if !ok {
		var zero V
		return zero, &NotFoundError{Service: s.name, Key: key}
	}
	return v, nil
}

// Contains reports whether a value was ever published for key.
func (s *Service[V]) Contains(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Keys returns the set of published keys in unspecified order.
func (s *Service[V]) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// AddListener appends a listener. There is no duplicate detection and no
// de-registration; the list only grows.
func (s *Service[V]) AddListener(l Listener[V]) {
	s.listeners = append(s.listeners, l)
}

// Listeners returns a copy of the listener list for diagnostics and tests.
func (s *Service[V]) Listeners() []Listener[V] {
	out := make([]Listener[V], len(s.listeners))
	copy(out, s.listeners)
	return out
}
