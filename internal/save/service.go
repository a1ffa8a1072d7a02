// Package save persists world, player and chunk state. All writes funnel
// through one dedicated worker goroutine: a save is a message on the
// request channel, completion is observed through a Future. This keeps
// the SQLite connection single-writer and the game loop non-blocking.
package save

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

// ErrClosed is returned for requests made after the service stopped.
var ErrClosed = errors.New("save service closed")

// WorldMeta identifies a persisted world.
type WorldMeta struct {
	ID        string
	Name      string
	Seed      int64
	CreatedAt time.Time
}

// PlayerState is the persisted player transform.
type PlayerState struct {
	X, Y, Z    float32
	Yaw, Pitch float32
}

// Snapshot is one consistent capture of everything the service writes.
// Built on the main thread so the worker never reads live game state.
type Snapshot struct {
	Meta   WorldMeta
	Player PlayerState
	Chunks []world.ChunkSnapshot
}

// LoadResult is what LoadWorld resolves to. Found is false for a fresh
// database with no world row.
type LoadResult struct {
	Found  bool
	Meta   WorldMeta
	Player PlayerState
	Chunks []world.ChunkSnapshot
}

// Outcome pairs a future's value with its error.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Future resolves exactly once with the result of an async request.
type Future[T any] struct {
	ch chan Outcome[T]
}

func newFuture[T any]() Future[T] {
	return Future[T]{ch: make(chan Outcome[T], 1)}
}

func (f Future[T]) resolve(v T, err error) {
	f.ch <- Outcome[T]{Value: v, Err: err}
}

// Await blocks until the future resolves or the timeout expires.
func (f Future[T]) Await(timeout time.Duration) (T, error) {
	select {
	case o := <-f.ch:
		return o.Value, o.Err
	case <-time.After(timeout):
		var zero T
		return zero, fmt.Errorf("save request timed out after %v", timeout)
	}
}

type reqKind int

const (
	reqSave reqKind = iota + 1
	reqLoad
	reqStop
)

type request struct {
	kind reqKind
	snap Snapshot
	save Future[struct{}]
	load Future[LoadResult]
	stop chan struct{}
}

// SnapshotProvider captures current game state; invoked on the caller's
// thread (the main thread), never on the save worker.
type SnapshotProvider func() Snapshot

// Service is the save/load front end around a Store.
type Service struct {
	store *Store

	reqs chan request
	wg   sync.WaitGroup

	mu       sync.Mutex
	provider SnapshotProvider
	closed   bool

	autosaveStop chan struct{}
	autosaveWG   sync.WaitGroup
	interval     time.Duration
}

// NewService starts the save worker on top of an open store.
func NewService(store *Store, autosaveInterval time.Duration) *Service {
	s := &Service{
		store:    store,
		reqs:     make(chan request, 16),
		interval: autosaveInterval,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Initialize registers the world being played and the snapshot provider
// used by SaveAll and autosave. Writes the world metadata row up front.
func (s *Service) Initialize(meta WorldMeta, provider SnapshotProvider) error {
	s.mu.Lock()
	s.provider = provider
	s.mu.Unlock()
	return s.store.UpsertMeta(meta)
}

// SaveAll captures a snapshot now and queues it for writing.
func (s *Service) SaveAll() Future[struct{}] {
	fut := newFuture[struct{}]()
	s.mu.Lock()
	provider := s.provider
	closed := s.closed
	s.mu.Unlock()
	if closed || provider == nil {
		fut.resolve(struct{}{}, ErrClosed)
		return fut
	}
	snap := provider()
	select {
	case s.reqs <- request{kind: reqSave, snap: snap, save: fut}:
	default:
		// writer is saturated; this save is redundant with the queued ones
		fut.resolve(struct{}{}, nil)
	}
	return fut
}

// LoadWorld reads the persisted world, serialized with pending saves.
func (s *Service) LoadWorld() Future[LoadResult] {
	fut := newFuture[LoadResult]()
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		fut.resolve(LoadResult{}, ErrClosed)
		return fut
	}
	s.reqs <- request{kind: reqLoad, load: fut}
	return fut
}

// StartAutoSave begins periodic SaveAll ticks. Idempotent.
func (s *Service) StartAutoSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autosaveStop != nil || s.closed {
		return
	}
	stop := make(chan struct{})
	s.autosaveStop = stop
	s.autosaveWG.Add(1)
	go func() {
		defer s.autosaveWG.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SaveAll()
			case <-stop:
				return
			}
		}
	}()
}

// StopAutoSave stops the periodic ticks. Idempotent.
func (s *Service) StopAutoSave() {
	s.mu.Lock()
	stop := s.autosaveStop
	s.autosaveStop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
		s.autosaveWG.Wait()
	}
}

// FlushBlocking saves now and waits for the write to land on disk.
// Used around world switches and process exit.
func (s *Service) FlushBlocking(reason string, timeout time.Duration) error {
	log.Printf("[save] flushing (%s)", reason)
	if _, err := s.SaveAll().Await(timeout); err != nil {
		return fmt.Errorf("flush (%s): %w", reason, err)
	}
	return nil
}

// Close stops autosave, drains pending writes and closes the store.
func (s *Service) Close() error {
	s.StopAutoSave()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	stopped := make(chan struct{})
	s.reqs <- request{kind: reqStop, stop: stopped}
	<-stopped
	s.wg.Wait()
	return s.store.Close()
}

func (s *Service) worker() {
	defer s.wg.Done()
	for req := range s.reqs {
		switch req.kind {
		case reqSave:
			err := s.store.WriteSnapshot(req.snap)
			if err != nil {
				log.Printf("[save] write failed: %v", err)
			}
			req.save.resolve(struct{}{}, err)
		case reqLoad:
			res, err := s.store.ReadAll()
			req.load.resolve(res, err)
		case reqStop:
			close(req.stop)
			return
		}
	}
}
