package world

import (
	"fmt"
	"math"
)

// ChunkCoord identifies a chunk column in the infinite X/Z chunk grid.
// World height is a single chunk, so there is no Y component.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// ChebyshevDistance is the ring metric used for streaming: the number of
// rings between two chunks.
func (c ChunkCoord) ChebyshevDistance(o ChunkCoord) int {
	dx := c.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dz := c.Z - o.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// ChunkCoordAt maps world block coordinates to the containing chunk,
// correct for negative positions.
func ChunkCoordAt(wx, wz int) ChunkCoord {
	return ChunkCoord{X: floorDiv(wx, ChunkSizeX), Z: floorDiv(wz, ChunkSizeZ)}
}

// floorInt rounds a world position down to its block coordinate.
// Truncation would misplace positions in (-1, 0) by one block.
func floorInt(v float32) int {
	return int(math.Floor(float64(v)))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod returns the in-chunk local coordinate for a world coordinate.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
