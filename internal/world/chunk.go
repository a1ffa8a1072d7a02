package world

import (
	"log"
	"sync/atomic"
)

const (
	// Chunk dimensions in blocks.
	ChunkSizeX = 16
	ChunkSizeY = 128
	ChunkSizeZ = 16

	ChunkVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// Chunk holds one chunk's voxel data and its derived GPU resources.
//
// Ownership: the chunk map entry belongs to the main thread. The block
// array is written by the generation worker before the state reaches
// GENERATED and read by the main thread only at ACTIVE or later, so the
// two sides never touch it concurrently. State and epoch are atomics
// because both threads inspect them.
type Chunk struct {
	Coord ChunkCoord

	blocks []BlockType

	state atomic.Int32
	epoch atomic.Uint64

	// handle is valid only while State().HasGPUResources(). Main thread only.
	handle    GPUHandle
	hasHandle bool

	// cleanupPushed marks that the handle is already on the cleanup
	// queue, so an overflowed push can be retried without duplicating
	// the free. Main thread only.
	cleanupPushed bool
}

// NewChunk creates a chunk in the UNLOADED state with no voxel data.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{Coord: coord}
}

// State returns the current lifecycle state.
func (c *Chunk) State() ChunkState {
	return ChunkState(c.state.Load())
}

// setState applies a lifecycle transition, refusing illegal ones.
// Returns false if the transition is not part of the state machine.
func (c *Chunk) setState(to ChunkState) bool {
	for {
		from := ChunkState(c.state.Load())
		if from == to {
			return true
		}
		if !canTransition(from, to) {
			log.Printf("[world] chunk %v: illegal transition %v -> %v", c.Coord, from, to)
			return false
		}
		if c.state.CompareAndSwap(int32(from), int32(to)) {
			return true
		}
	}
}

// Epoch returns the chunk's current job epoch.
func (c *Chunk) Epoch() uint64 {
	return c.epoch.Load()
}

// bumpEpoch invalidates any in-flight job result for this chunk and
// returns the new epoch.
func (c *Chunk) bumpEpoch() uint64 {
	return c.epoch.Add(1)
}

// SetBlocks installs the voxel payload. The worker calls this before a
// chunk is announced as GENERATED; nothing may call it afterwards.
func (c *Chunk) SetBlocks(blocks []BlockType) {
	c.blocks = blocks
}

// Block returns the block at local chunk coordinates, or air when the
// chunk has no payload yet or the coordinates are out of bounds.
func (c *Chunk) Block(x, y, z int) BlockType {
	if c.blocks == nil {
		return BlockTypeAir
	}
	if x < 0 || x >= ChunkSizeX || y < 0 || y >= ChunkSizeY || z < 0 || z >= ChunkSizeZ {
		return BlockTypeAir
	}
	return c.blocks[blockIndex(x, y, z)]
}

// Blocks exposes the raw voxel payload for meshing and persistence.
// Nil until generation completed.
func (c *Chunk) Blocks() []BlockType {
	return c.blocks
}

func (c *Chunk) cleanupQueued() bool     { return c.cleanupPushed }
func (c *Chunk) setCleanupQueued(v bool) { c.cleanupPushed = v }

// Handle returns the chunk's GPU resources, if any. Main thread only.
func (c *Chunk) Handle() (GPUHandle, bool) {
	return c.handle, c.hasHandle
}

// blockIndex flattens local coordinates into the block array.
func blockIndex(x, y, z int) int {
	return (x*ChunkSizeY+y)*ChunkSizeZ + z
}
