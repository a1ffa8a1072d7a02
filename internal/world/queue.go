package world

import "context"

// MeshBuildResult carries one finished generate+mesh job from the
// background worker to the main thread. Consumed exactly once; a result
// whose epoch no longer matches its chunk is stale and discarded.
type MeshBuildResult struct {
	Coord ChunkCoord
	Epoch uint64
	Mesh  MeshData

	// GenFailed marks a chunk that fell back to the flat error payload
	// after repeated generation failures.
	GenFailed bool
}

// MeshUploadQueue is the bounded multi-producer single-consumer queue of
// completed mesh buffers awaiting main-thread GPU upload. FIFO; the
// consumer drains at most a capped number of items per frame.
type MeshUploadQueue struct {
	ch chan MeshBuildResult
}

func NewMeshUploadQueue(capacity int) *MeshUploadQueue {
	if capacity <= 0 {
		capacity = 256
	}
	return &MeshUploadQueue{ch: make(chan MeshBuildResult, capacity)}
}

// Send enqueues a result, blocking while the queue is full so completed
// work is never dropped. Returns false if ctx ended first.
func (q *MeshUploadQueue) Send(ctx context.Context, r MeshBuildResult) bool {
	select {
	case q.ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// TryPop removes the oldest result without blocking.
func (q *MeshUploadQueue) TryPop() (MeshBuildResult, bool) {
	select {
	case r := <-q.ch:
		return r, true
	default:
		return MeshBuildResult{}, false
	}
}

// Len returns the number of queued results.
func (q *MeshUploadQueue) Len() int {
	return len(q.ch)
}

// cleanupItem is one GPU handle scheduled for release.
type cleanupItem struct {
	coord  ChunkCoord
	handle GPUHandle
}

// GPUCleanupQueue is the bounded queue of GPU handles to release, drained
// only on the main thread. Producers are the main thread (streaming
// unloads) and the control path (world reset), never the worker.
type GPUCleanupQueue struct {
	ch chan cleanupItem
}

func NewGPUCleanupQueue(capacity int) *GPUCleanupQueue {
	if capacity <= 0 {
		capacity = 4096
	}
	return &GPUCleanupQueue{ch: make(chan cleanupItem, capacity)}
}

// TryPush enqueues a handle for deferred release. Returns false when the
// queue is full; the chunk then keeps its handle and the push is retried
// on a later frame.
func (q *GPUCleanupQueue) TryPush(coord ChunkCoord, handle GPUHandle) bool {
	select {
	case q.ch <- cleanupItem{coord: coord, handle: handle}:
		return true
	default:
		return false
	}
}

// TryPop removes the oldest pending release without blocking.
func (q *GPUCleanupQueue) TryPop() (cleanupItem, bool) {
	select {
	case it := <-q.ch:
		return it, true
	default:
		return cleanupItem{}, false
	}
}

// Len returns the number of handles awaiting release.
func (q *GPUCleanupQueue) Len() int {
	return len(q.ch)
}
