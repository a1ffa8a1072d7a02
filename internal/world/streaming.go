package world

// StreamingController decides which chunks should be resident based on
// the streaming center and render distance. Pure; no locking, no side
// effects. World diffs the result against its chunk table.
type StreamingController struct {
	renderDistance int
	evictMargin    int
}

// NewStreamingController creates a controller. evictMargin is the
// hysteresis band in rings: a chunk is requested inside renderDistance
// but only released beyond renderDistance+evictMargin, which avoids
// load/unload thrash while crossing ring boundaries.
func NewStreamingController(renderDistance, evictMargin int) *StreamingController {
	if renderDistance < 1 {
		renderDistance = 1
	}
	if evictMargin < 0 {
		evictMargin = 0
	}
	return &StreamingController{renderDistance: renderDistance, evictMargin: evictMargin}
}

func (sc *StreamingController) RenderDistance() int { return sc.renderDistance }

// EvictDistance returns the ring beyond which chunks are released.
func (sc *StreamingController) EvictDistance() int {
	return sc.renderDistance + sc.evictMargin
}

// WantedSet returns every coordinate within renderDistance (Chebyshev)
// of center, ordered by expanding rings: ring 0 first, then the
// perimeter walk of each ring outward. The order is deterministic for a
// given center so repeated calls per frame cannot oscillate.
func (sc *StreamingController) WantedSet(center ChunkCoord) []ChunkCoord {
	return RingOrder(center, sc.renderDistance)
}

// ShouldRelease reports whether a resident chunk at coord has left the
// streamed area around center, hysteresis included.
func (sc *StreamingController) ShouldRelease(coord, center ChunkCoord) bool {
	return coord.ChebyshevDistance(center) > sc.EvictDistance()
}

// RingOrder enumerates all coordinates with Chebyshev distance <= radius
// from center in expanding-ring order. Each ring is walked along its
// perimeter: top edge, right edge, bottom edge, left edge.
func RingOrder(center ChunkCoord, radius int) []ChunkCoord {
	side := 2*radius + 1
	out := make([]ChunkCoord, 0, side*side)
	out = append(out, center)
	for r := 1; r <= radius; r++ {
		x0, x1 := center.X-r, center.X+r
		z0, z1 := center.Z-r, center.Z+r
		for x := x0; x <= x1; x++ {
			out = append(out, ChunkCoord{X: x, Z: z0})
		}
		for z := z0 + 1; z <= z1-1; z++ {
			out = append(out, ChunkCoord{X: x1, Z: z})
		}
		for x := x1; x >= x0; x-- {
			out = append(out, ChunkCoord{X: x, Z: z1})
		}
		for z := z1 - 1; z >= z0+1; z-- {
			out = append(out, ChunkCoord{X: x0, Z: z})
		}
	}
	return out
}
