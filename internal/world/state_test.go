package world

import "testing"

func TestCanTransition(t *testing.T) {
	pipeline := []ChunkState{
		StateUnloaded,
		StateQueuedForGeneration,
		StateGenerating,
		StateGenerated,
		StateQueuedForMesh,
		StateMeshing,
		StateMeshReady,
		StateQueuedForUpload,
		StateActive,
	}

	// every consecutive pipeline step is legal
	for i := 0; i < len(pipeline)-1; i++ {
		if !canTransition(pipeline[i], pipeline[i+1]) {
			t.Errorf("pipeline step %v -> %v should be legal", pipeline[i], pipeline[i+1])
		}
	}

	// skipping a step is not
	for i := 0; i < len(pipeline)-2; i++ {
		if canTransition(pipeline[i], pipeline[i+2]) {
			t.Errorf("skip %v -> %v should be illegal", pipeline[i], pipeline[i+2])
		}
	}

	// cleanup is reachable from every state except itself
	for _, from := range pipeline {
		if !canTransition(from, StateQueuedForCleanup) {
			t.Errorf("%v -> QUEUED_FOR_CLEANUP should be legal", from)
		}
	}
	if canTransition(StateQueuedForCleanup, StateQueuedForCleanup) {
		t.Error("QUEUED_FOR_CLEANUP -> QUEUED_FOR_CLEANUP should be illegal")
	}
	if !canTransition(StateQueuedForCleanup, StateUnloaded) {
		t.Error("QUEUED_FOR_CLEANUP -> UNLOADED should be legal")
	}
	if canTransition(StateActive, StateUnloaded) {
		t.Error("ACTIVE -> UNLOADED must pass through cleanup")
	}
	if canTransition(StateQueuedForCleanup, StateActive) {
		t.Error("a chunk marked for cleanup must not reactivate")
	}
}

func TestChunkSetStateRejectsIllegal(t *testing.T) {
	c := NewChunk(ChunkCoord{1, 1})
	if c.State() != StateUnloaded {
		t.Fatalf("new chunk state = %v, want UNLOADED", c.State())
	}
	if c.setState(StateActive) {
		t.Error("UNLOADED -> ACTIVE accepted")
	}
	if c.State() != StateUnloaded {
		t.Errorf("state changed to %v on rejected transition", c.State())
	}

	if !c.setState(StateQueuedForGeneration) {
		t.Error("UNLOADED -> QUEUED_FOR_GENERATION rejected")
	}
	// same-state set is a no-op, not an error
	if !c.setState(StateQueuedForGeneration) {
		t.Error("same-state set rejected")
	}
}

func TestHasGPUResources(t *testing.T) {
	for s := StateUnloaded; s <= StateQueuedForCleanup; s++ {
		want := s == StateActive || s == StateQueuedForCleanup
		if got := s.HasGPUResources(); got != want {
			t.Errorf("%v.HasGPUResources() = %v, want %v", s, got, want)
		}
	}
}

func TestStateString(t *testing.T) {
	if got := StateMeshReady.String(); got != "MESH_READY" {
		t.Errorf("StateMeshReady.String() = %q", got)
	}
	if got := ChunkState(99).String(); got != "UNKNOWN" {
		t.Errorf("unknown state String() = %q", got)
	}
}
