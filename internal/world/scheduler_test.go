package world

import (
	"testing"
	"time"
)

func newTestScheduler(gen TerrainGenerator, maxOutstanding int) (*GenerationScheduler, *MeshUploadQueue) {
	uploads := NewMeshUploadQueue(64)
	return NewGenerationScheduler(gen, fakeMesher{}, uploads, 1, maxOutstanding), uploads
}

func TestRequestIdempotent(t *testing.T) {
	gen := newFakeGen()
	gen.gate = make(chan struct{})
	s, uploads := newTestScheduler(gen, 8)
	defer s.Close()

	c := NewChunk(ChunkCoord{0, 0})
	c.bumpEpoch()
	if !s.Request(c) {
		t.Fatal("first Request refused")
	}
	if s.Request(c) {
		t.Error("second Request for a pending coordinate accepted")
	}
	if got := s.Outstanding(); got != 1 {
		t.Errorf("Outstanding() = %d, want 1", got)
	}

	close(gen.gate)
	waitFor(t, 2*time.Second, "job completion", func() bool {
		return s.Outstanding() == 0
	})
	if got := uploads.Len(); got != 1 {
		t.Errorf("uploads.Len() = %d, want exactly one result", got)
	}
}

func TestRequestOutstandingCap(t *testing.T) {
	gen := newFakeGen()
	gen.gate = make(chan struct{})
	s, _ := newTestScheduler(gen, 1)
	defer s.Close()

	c1 := NewChunk(ChunkCoord{0, 0})
	c1.bumpEpoch()
	c2 := NewChunk(ChunkCoord{1, 0})
	c2.bumpEpoch()

	if !s.Request(c1) {
		t.Fatal("first Request refused")
	}
	if s.Request(c2) {
		t.Error("Request beyond the outstanding cap accepted")
	}

	close(gen.gate)
	waitFor(t, 2*time.Second, "job completion", func() bool {
		return s.Outstanding() == 0
	})
	// capacity freed; the refused coordinate can be retried
	if !s.Request(c2) {
		t.Error("retry after capacity freed refused")
	}
}

func TestFlushBarrier(t *testing.T) {
	gen := newFakeGen()
	s, uploads := newTestScheduler(gen, 8)
	defer s.Close()

	c := NewChunk(ChunkCoord{4, 4})
	c.bumpEpoch()
	if !s.Request(c) {
		t.Fatal("Request refused")
	}
	if !s.Flush(2 * time.Second) {
		t.Fatal("Flush timed out behind one quick job")
	}
	if got := s.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %d after flush, want 0", got)
	}
	if got := uploads.Len(); got != 1 {
		t.Errorf("uploads.Len() = %d after flush, want 1", got)
	}
}

func TestFlushTimesOutBehindStuckJob(t *testing.T) {
	gen := newFakeGen()
	gen.gate = make(chan struct{})
	s, _ := newTestScheduler(gen, 8)
	defer s.Close()

	c := NewChunk(ChunkCoord{0, 0})
	c.bumpEpoch()
	if !s.Request(c) {
		t.Fatal("Request refused")
	}
	if s.Flush(50 * time.Millisecond) {
		t.Error("Flush returned true while the worker was blocked")
	}
	close(gen.gate)
}

func TestStateAdvancesBeforeResultPublished(t *testing.T) {
	gen := newFakeGen()
	uploads := NewMeshUploadQueue(1)
	s := NewGenerationScheduler(gen, fakeMesher{}, uploads, 1, 8)
	defer s.Close()

	a := NewChunk(ChunkCoord{0, 0})
	a.bumpEpoch()
	b := NewChunk(ChunkCoord{1, 0})
	b.bumpEpoch()
	if !s.Request(a) || !s.Request(b) {
		t.Fatal("Request refused")
	}

	// the first result fills the queue, parking the worker inside Send for
	// the second; its chunk must already read QUEUED_FOR_UPLOAD so the main
	// thread can activate it the instant the result lands
	waitFor(t, 2*time.Second, "both chunks queued for upload", func() bool {
		return uploads.Len() == 1 &&
			a.State() == StateQueuedForUpload && b.State() == StateQueuedForUpload
	})

	if _, ok := uploads.TryPop(); !ok {
		t.Fatal("queued result missing")
	}
	waitFor(t, 2*time.Second, "worker drained", func() bool {
		return s.Outstanding() == 0
	})
	if got := uploads.Len(); got != 1 {
		t.Errorf("uploads.Len() = %d after drain, want 1", got)
	}
}

func TestCancelAbandonsRunningJob(t *testing.T) {
	gen := newFakeGen()
	gen.entered = make(chan ChunkCoord, 1)
	gen.gate = make(chan struct{})
	s, uploads := newTestScheduler(gen, 8)
	defer s.Close()

	c := NewChunk(ChunkCoord{7, -7})
	c.bumpEpoch()
	if !s.Request(c) {
		t.Fatal("Request refused")
	}
	<-gen.entered
	s.Cancel(c)
	if got := s.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %d after Cancel, want 0", got)
	}

	close(gen.gate)
	if !s.Flush(2 * time.Second) {
		t.Fatal("worker did not acknowledge flush")
	}
	if got := uploads.Len(); got != 0 {
		t.Errorf("cancelled job still produced %d results", got)
	}
	if c.State() == StateQueuedForUpload || c.State() == StateActive {
		t.Errorf("cancelled chunk advanced to %v", c.State())
	}
}
