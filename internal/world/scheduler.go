package world

import (
	"context"
	"log"
	"sync"
	"time"
)

// Mesher builds vertex/index buffers from a generated chunk. Runs on the
// generation worker, never on the main thread.
type Mesher interface {
	BuildMesh(chunk *Chunk) (MeshData, error)
}

// genJob is one unit of background work: generate a chunk's voxels, then
// mesh them. A job with a non-nil flush channel is a barrier token: the
// worker closes it once every previously queued job has been processed.
type genJob struct {
	chunk *Chunk
	epoch uint64
	flush chan struct{}
}

// GenerationScheduler serializes generate-then-mesh jobs on exactly one
// background worker. One worker keeps generation deterministic relative
// to submission order and sidesteps thread-safety questions in the
// terrain generator; ring-ordered submission already biases completion
// toward nearby chunks.
//
// The scheduler never touches the chunk map or GPU state. Its only
// output is the mesh upload queue.
type GenerationScheduler struct {
	jobs chan genJob

	pendingMu sync.Mutex
	pending   map[ChunkCoord]uint64

	maxOutstanding int

	gen     TerrainGenerator
	mesher  Mesher
	uploads *MeshUploadQueue
	seed    int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGenerationScheduler creates the scheduler and starts its worker.
func NewGenerationScheduler(gen TerrainGenerator, mesher Mesher, uploads *MeshUploadQueue, seed int64, maxOutstanding int) *GenerationScheduler {
	if maxOutstanding <= 0 {
		maxOutstanding = 512
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &GenerationScheduler{
		jobs:           make(chan genJob, 4096),
		pending:        make(map[ChunkCoord]uint64),
		maxOutstanding: maxOutstanding,
		gen:            gen,
		mesher:         mesher,
		uploads:        uploads,
		seed:           seed,
		ctx:            ctx,
		cancel:         cancel,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Request enqueues generation/mesh work for a chunk. Idempotent: a
// coordinate with an outstanding job is not re-queued. Returns false
// when nothing was enqueued (already pending, outstanding cap reached,
// or job channel full); callers simply retry on a later frame.
func (s *GenerationScheduler) Request(chunk *Chunk) bool {
	coord := chunk.Coord
	epoch := chunk.Epoch()

	s.pendingMu.Lock()
	if _, ok := s.pending[coord]; ok {
		s.pendingMu.Unlock()
		return false
	}
	if len(s.pending) >= s.maxOutstanding {
		s.pendingMu.Unlock()
		return false
	}
	s.pending[coord] = epoch
	s.pendingMu.Unlock()

	chunk.setState(StateQueuedForGeneration)

	select {
	case s.jobs <- genJob{chunk: chunk, epoch: epoch}:
		return true
	default:
		// channel full: roll back so the coordinate can be retried
		s.pendingMu.Lock()
		if s.pending[coord] == epoch {
			delete(s.pending, coord)
		}
		s.pendingMu.Unlock()
		return false
	}
}

// Cancel invalidates any outstanding job for the chunk. The running job
// is not interrupted; its result arrives tagged with the old epoch and
// is discarded. After Cancel the coordinate may be requested again.
func (s *GenerationScheduler) Cancel(chunk *Chunk) {
	chunk.bumpEpoch()
	s.pendingMu.Lock()
	delete(s.pending, chunk.Coord)
	s.pendingMu.Unlock()
}

// Outstanding returns the number of coordinates with in-flight jobs.
func (s *GenerationScheduler) Outstanding() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

// Flush blocks until every job queued before the call has been processed
// or the timeout expires. Used by world reset to know the worker holds
// no references into the old world.
func (s *GenerationScheduler) Flush(timeout time.Duration) bool {
	token := make(chan struct{})
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case s.jobs <- genJob{flush: token}:
	case <-deadline.C:
		return false
	case <-s.ctx.Done():
		return false
	}

	select {
	case <-token:
		return true
	case <-deadline.C:
		return false
	case <-s.ctx.Done():
		return false
	}
}

// Close stops the worker and waits for it to exit.
func (s *GenerationScheduler) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *GenerationScheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case job := <-s.jobs:
			if job.flush != nil {
				close(job.flush)
				continue
			}
			s.process(job)
			s.pendingMu.Lock()
			if s.pending[job.chunk.Coord] == job.epoch {
				delete(s.pending, job.chunk.Coord)
			}
			s.pendingMu.Unlock()
		case <-s.ctx.Done():
			return
		}
	}
}

// process runs one generate-then-mesh job. The epoch is re-checked
// between stages so a cancelled chunk is abandoned instead of written.
func (s *GenerationScheduler) process(job genJob) {
	ch := job.chunk
	if ch.Epoch() != job.epoch {
		return
	}
	ch.setState(StateGenerating)

	blocks, genFailed := s.generate(ch.Coord)
	if ch.Epoch() != job.epoch {
		return
	}
	ch.SetBlocks(blocks)
	ch.setState(StateGenerated)

	ch.setState(StateQueuedForMesh)
	ch.setState(StateMeshing)
	mesh, err := s.mesher.BuildMesh(ch)
	if err != nil {
		// render nothing for this chunk rather than wedging the pipeline
		log.Printf("[world] mesh build failed for %v: %v", ch.Coord, err)
		mesh = MeshData{}
	}
	if ch.Epoch() != job.epoch {
		return
	}
	ch.setState(StateMeshReady)

	// advance the state before publishing: the main thread may pop the
	// result the instant it lands, and ACTIVE is only reachable from
	// QUEUED_FOR_UPLOAD
	ch.setState(StateQueuedForUpload)
	s.uploads.Send(s.ctx, MeshBuildResult{Coord: ch.Coord, Epoch: job.epoch, Mesh: mesh, GenFailed: genFailed})
}

// generate invokes the terrain generator with one retry. A second
// failure yields the flat fallback payload so the chunk still completes.
func (s *GenerationScheduler) generate(coord ChunkCoord) ([]BlockType, bool) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		blocks, err := s.gen.Generate(coord, s.seed)
		if err == nil {
			return blocks, false
		}
		lastErr = err
		if attempt == 0 {
			log.Printf("[world] generation failed for %v, retrying: %v", coord, err)
		}
	}
	log.Printf("[world] generation failed twice for %v, using flat payload: %v", coord, lastErr)
	return flatPayload(), true
}
