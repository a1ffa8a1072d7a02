package world

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/profiling"
)

// ProgressReporter receives coarse loading milestones during initial
// world population. Best-effort; not part of pipeline correctness.
type ProgressReporter interface {
	UpdateProgress(stage string)
}

// Options tunes the streaming pipeline. Zero values pick defaults.
type Options struct {
	RenderDistance      int
	EvictMargin         int
	MaxOutstandingJobs  int
	MaxUploadsPerFrame  int
	MaxCleanupsPerFrame int
	UploadQueueCap      int
	CleanupQueueCap     int
}

func (o *Options) fill() {
	if o.RenderDistance <= 0 {
		o.RenderDistance = 12
	}
	if o.EvictMargin <= 0 {
		o.EvictMargin = 2
	}
	if o.MaxUploadsPerFrame <= 0 {
		o.MaxUploadsPerFrame = 16
	}
	if o.MaxCleanupsPerFrame <= 0 {
		o.MaxCleanupsPerFrame = 32
	}
}

// World coordinates the chunk streaming pipeline: it owns the chunk
// table, submits work to the background scheduler each frame, and drains
// the upload and cleanup queues on the main thread.
//
// Single-writer discipline: only the main thread mutates the chunk map
// (insert on request, delete on cleanup completion). The background
// worker sees chunks solely through the jobs it was handed and the
// upload queue. The map mutex exists for the read-only diagnostics
// counters, which may be sampled from other goroutines.
type World struct {
	mu     sync.Mutex
	chunks map[ChunkCoord]*Chunk
	loaded int // chunks currently ACTIVE

	// epochs is the per-coordinate job epoch source. It outlives chunk
	// objects: a re-requested coordinate continues the sequence, so a
	// result queued by a previous incarnation can never match the new
	// chunk's epoch.
	epochs map[ChunkCoord]uint64

	streamer  *StreamingController
	scheduler *GenerationScheduler
	uploads   *MeshUploadQueue
	cleanup   *GPUCleanupQueue
	gen       TerrainGenerator
	seed      int64

	maxUploadsPerFrame  int
	maxCleanupsPerFrame int
}

// NewWorld wires the pipeline together and starts the generation worker.
func NewWorld(gen TerrainGenerator, mesher Mesher, seed int64, opts Options) *World {
	opts.fill()
	uploads := NewMeshUploadQueue(opts.UploadQueueCap)
	return &World{
		chunks:              make(map[ChunkCoord]*Chunk),
		epochs:              make(map[ChunkCoord]uint64),
		streamer:            NewStreamingController(opts.RenderDistance, opts.EvictMargin),
		scheduler:           NewGenerationScheduler(gen, mesher, uploads, seed, opts.MaxOutstandingJobs),
		uploads:             uploads,
		cleanup:             NewGPUCleanupQueue(opts.CleanupQueueCap),
		gen:                 gen,
		seed:                seed,
		maxUploadsPerFrame:  opts.MaxUploadsPerFrame,
		maxCleanupsPerFrame: opts.MaxCleanupsPerFrame,
	}
}

// Seed returns the world seed.
func (w *World) Seed() int64 { return w.seed }

// SurfaceHeightAt returns the terrain surface height at world X,Z.
func (w *World) SurfaceHeightAt(wx, wz int) int {
	return w.gen.SurfaceHeight(wx, wz)
}

// Update runs the per-frame streaming diff around the player position:
// chunks entering the wanted set are requested in expanding-ring order,
// chunks beyond the eviction ring are cancelled and marked for cleanup.
// Non-blocking; all heavy work happens on the background worker.
func (w *World) Update(px, pz float32) {
	defer profiling.Track("world.Update")()
	center := ChunkCoordAt(floorInt(px), floorInt(pz))

	for _, coord := range w.streamer.WantedSet(center) {
		if _, ok := w.lookup(coord); ok {
			// resident or mid-cleanup; nothing to do
			continue
		}
		w.requestChunk(coord)
	}

	for _, c := range w.residents() {
		if w.streamer.ShouldRelease(c.Coord, center) {
			w.markForCleanup(c)
		} else if c.State() == StateQueuedForCleanup && c.hasHandle && !c.cleanupQueued() {
			// cleanup queue was full last frame; retry the push
			w.enqueueCleanup(c)
		}
	}
}

// requestChunk creates a chunk, allocates the coordinate's next job
// epoch and submits it. On a refused submit (outstanding cap, full
// queue) the chunk is not inserted, so the next frame's diff retries
// the coordinate.
func (w *World) requestChunk(coord ChunkCoord) {
	c := NewChunk(coord)
	w.mu.Lock()
	w.epochs[coord]++
	c.epoch.Store(w.epochs[coord])
	w.mu.Unlock()
	if !w.scheduler.Request(c) {
		return
	}
	w.mu.Lock()
	w.chunks[coord] = c
	w.mu.Unlock()
}

// markForCleanup cancels outstanding work for a chunk and queues its GPU
// resources for release. Handle-less chunks unload immediately.
func (w *World) markForCleanup(c *Chunk) {
	if c.State() == StateQueuedForCleanup {
		return
	}
	if c.State() == StateActive {
		w.mu.Lock()
		w.loaded--
		w.mu.Unlock()
	}
	w.scheduler.Cancel(c)
	c.setState(StateQueuedForCleanup)
	if c.hasHandle {
		w.enqueueCleanup(c)
		return
	}
	w.unload(c)
}

func (w *World) enqueueCleanup(c *Chunk) {
	if w.cleanup.TryPush(c.Coord, c.handle) {
		c.setCleanupQueued(true)
	}
}

// unload finalizes QUEUED_FOR_CLEANUP -> UNLOADED and removes the map entry.
func (w *World) unload(c *Chunk) {
	c.setState(StateUnloaded)
	w.mu.Lock()
	delete(w.chunks, c.Coord)
	w.mu.Unlock()
}

// UpdateMainThread drains the mesh upload queue, uploading at most the
// per-frame cap so a burst of completed chunks cannot spike frame time.
// Must run on the thread owning the graphics context. An upload error is
// fatal to the frame and returned to the caller.
func (w *World) UpdateMainThread(device GPUDevice) error {
	defer profiling.Track("world.UpdateMainThread")()
	for i := 0; i < w.maxUploadsPerFrame; i++ {
		result, ok := w.uploads.TryPop()
		if !ok {
			return nil
		}
		if err := w.applyMeshResult(device, result); err != nil {
			return err
		}
	}
	return nil
}

// applyMeshResult installs one completed mesh, or discards it when the
// chunk is gone or its epoch moved on (cancelled mid-flight).
func (w *World) applyMeshResult(device GPUDevice, result MeshBuildResult) error {
	c, ok := w.lookup(result.Coord)
	if !ok || c.Epoch() != result.Epoch {
		return nil // stale; expected under cancellation
	}
	if result.GenFailed {
		log.Printf("[world] chunk %v activated with fallback terrain", result.Coord)
	}
	if !result.Mesh.Empty() {
		handle, err := device.UploadChunkMesh(result.Coord, result.Mesh)
		if err != nil {
			return fmt.Errorf("upload chunk mesh %v: %w", result.Coord, err)
		}
		c.handle = handle
		c.hasHandle = true
	}
	c.setState(StateActive)
	w.mu.Lock()
	w.loaded++
	w.mu.Unlock()
	return nil
}

// ProcessGPUCleanup frees queued GPU handles, at most the per-frame cap.
// Runs after UpdateMainThread so a chunk's cleanup never races its own
// upload within the same frame. Must run on the GL thread.
func (w *World) ProcessGPUCleanup(device GPUDevice) {
	defer profiling.Track("world.ProcessGPUCleanup")()
	for i := 0; i < w.maxCleanupsPerFrame; i++ {
		item, ok := w.cleanup.TryPop()
		if !ok {
			return
		}
		device.DeleteChunkMesh(item.coord, item.handle)
		if c, ok := w.lookup(item.coord); ok && c.State() == StateQueuedForCleanup {
			c.hasHandle = false
			c.setCleanupQueued(false)
			w.unload(c)
		}
	}
}

// ClearWorldData synchronously tears the pipeline down to empty: cancels
// every outstanding job, waits (bounded) for the worker to go quiet,
// frees all GPU handles and empties the chunk table. Used when switching
// worlds. On return there are zero live handles and zero live jobs; a
// worker that failed to acknowledge in time is logged, not fatal.
func (w *World) ClearWorldData(device GPUDevice, timeout time.Duration) {
	for _, c := range w.residents() {
		w.scheduler.Cancel(c)
	}

	// The worker may be blocked pushing a result; keep draining while
	// waiting for the flush token so it can finish and acknowledge.
	deadline := time.Now().Add(timeout)
	for {
		w.discardUploads()
		if w.scheduler.Flush(50 * time.Millisecond) {
			break
		}
		if time.Now().After(deadline) {
			log.Printf("[world] clear: generation worker did not acknowledge within %v", timeout)
			break
		}
	}
	w.discardUploads()

	for {
		item, ok := w.cleanup.TryPop()
		if !ok {
			break
		}
		device.DeleteChunkMesh(item.coord, item.handle)
	}
	for _, c := range w.residents() {
		// handles already on the cleanup queue were freed by the drain above
		if c.hasHandle && !c.cleanupQueued() {
			device.DeleteChunkMesh(c.Coord, c.handle)
		}
		c.hasHandle = false
	}

	w.mu.Lock()
	w.chunks = make(map[ChunkCoord]*Chunk)
	w.loaded = 0
	w.mu.Unlock()
}

func (w *World) discardUploads() {
	for {
		if _, ok := w.uploads.TryPop(); !ok {
			return
		}
	}
}

// PreloadAround synchronously populates the rings around center before
// the first playable frame, reporting progress per completed ring. The
// pipeline still runs through its normal queues; this just pumps the
// main-thread side until each ring is resident.
func (w *World) PreloadAround(center ChunkCoord, radius int, device GPUDevice, reporter ProgressReporter, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for r := 0; r <= radius; r++ {
		ring := ringCoords(center, r)
		for !w.ringResident(ring) {
			for _, coord := range ring {
				if _, ok := w.lookup(coord); !ok {
					w.requestChunk(coord)
				}
			}
			if err := w.UpdateMainThread(device); err != nil {
				return err
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("world preload timed out after %v at ring %d", timeout, r)
			}
			time.Sleep(time.Millisecond)
		}
		if reporter != nil {
			reporter.UpdateProgress(fmt.Sprintf("Generating terrain %d%%", (r+1)*100/(radius+1)))
		}
	}
	return nil
}

func (w *World) ringResident(ring []ChunkCoord) bool {
	for _, coord := range ring {
		c, ok := w.lookup(coord)
		if !ok || c.State() != StateActive {
			return false
		}
	}
	return true
}

func ringCoords(center ChunkCoord, r int) []ChunkCoord {
	if r == 0 {
		return []ChunkCoord{center}
	}
	all := RingOrder(center, r)
	inner := 2*r - 1
	return all[inner*inner:]
}

// Close stops the background worker. GPU resources must already have
// been released via ClearWorldData.
func (w *World) Close() {
	w.scheduler.Close()
}

// lookup is the thread-safe point read of the chunk table.
func (w *World) lookup(coord ChunkCoord) (*Chunk, bool) {
	w.mu.Lock()
	c, ok := w.chunks[coord]
	w.mu.Unlock()
	return c, ok
}

// residents snapshots the chunk table for main-thread iteration.
func (w *World) residents() []*Chunk {
	w.mu.Lock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	w.mu.Unlock()
	return out
}

// ForEachRenderable calls fn for every ACTIVE chunk that owns GPU
// resources, main thread only.
func (w *World) ForEachRenderable(fn func(coord ChunkCoord, handle GPUHandle)) {
	for _, c := range w.residents() {
		if c.State() == StateActive && c.hasHandle {
			fn(c.Coord, c.handle)
		}
	}
}

// ChunkSnapshot is one chunk's persisted form.
type ChunkSnapshot struct {
	Coord  ChunkCoord
	Blocks []BlockType
}

// SnapshotActive copies the voxel payloads of all ACTIVE chunks for the
// save service. Main thread only; ACTIVE payloads are no longer written
// by the worker, so the copy is race-free.
func (w *World) SnapshotActive() []ChunkSnapshot {
	var out []ChunkSnapshot
	for _, c := range w.residents() {
		if c.State() != StateActive || c.blocks == nil {
			continue
		}
		blocks := make([]BlockType, len(c.blocks))
		copy(blocks, c.blocks)
		out = append(out, ChunkSnapshot{Coord: c.Coord, Blocks: blocks})
	}
	return out
}

// LoadedChunkCount reports chunks currently ACTIVE.
func (w *World) LoadedChunkCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// PendingMeshBuildCount reports coordinates with in-flight
// generation/mesh jobs.
func (w *World) PendingMeshBuildCount() int {
	return w.scheduler.Outstanding()
}

// PendingGLUploadCount reports completed meshes awaiting upload.
func (w *World) PendingGLUploadCount() int {
	return w.uploads.Len()
}
