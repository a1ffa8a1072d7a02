package world

// ChunkState is the lifecycle state of a chunk. A chunk is in exactly one
// state at any instant; transitions follow a fixed total order per chunk,
// with cleanup reachable from every state.
type ChunkState int32

const (
	StateUnloaded ChunkState = iota
	StateQueuedForGeneration
	StateGenerating
	StateGenerated
	StateQueuedForMesh
	StateMeshing
	StateMeshReady
	StateQueuedForUpload
	StateActive
	StateQueuedForCleanup
)

var stateNames = map[ChunkState]string{
	StateUnloaded:            "UNLOADED",
	StateQueuedForGeneration: "QUEUED_FOR_GENERATION",
	StateGenerating:          "GENERATING",
	StateGenerated:           "GENERATED",
	StateQueuedForMesh:       "QUEUED_FOR_MESH",
	StateMeshing:             "MESHING",
	StateMeshReady:           "MESH_READY",
	StateQueuedForUpload:     "QUEUED_FOR_UPLOAD",
	StateActive:              "ACTIVE",
	StateQueuedForCleanup:    "QUEUED_FOR_CLEANUP",
}

func (s ChunkState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// HasGPUResources reports whether a chunk in this state may own GPU handles.
func (s ChunkState) HasGPUResources() bool {
	return s == StateActive || s == StateQueuedForCleanup
}

// canTransition reports whether moving from one lifecycle state to the next
// is legal. Cleanup may be entered from anywhere; everything else follows
// the pipeline order.
func canTransition(from, to ChunkState) bool {
	if to == StateQueuedForCleanup {
		return from != StateQueuedForCleanup
	}
	switch from {
	case StateUnloaded:
		return to == StateQueuedForGeneration
	case StateQueuedForGeneration:
		return to == StateGenerating
	case StateGenerating:
		return to == StateGenerated
	case StateGenerated:
		return to == StateQueuedForMesh
	case StateQueuedForMesh:
		return to == StateMeshing
	case StateMeshing:
		return to == StateMeshReady
	case StateMeshReady:
		return to == StateQueuedForUpload
	case StateQueuedForUpload:
		return to == StateActive
	case StateQueuedForCleanup:
		return to == StateUnloaded
	}
	return false
}
