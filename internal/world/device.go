package world

// MeshData is a GPU-ready vertex/index buffer payload built from a
// chunk's voxel data. Immutable once constructed.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
}

// Empty reports whether the mesh has nothing to draw (fully air or fully
// buried chunks produce empty meshes and skip GPU allocation).
func (m MeshData) Empty() bool {
	return len(m.Indices) == 0
}

// GPUHandle references uploaded graphics resources for one chunk. Handles
// are created and destroyed only on the thread owning the GL context.
type GPUHandle struct {
	VAO, VBO, EBO uint32
	IndexCount    int32
}

// GPUDevice abstracts the main-thread GL calls the pipeline needs, so the
// streaming core never links against OpenGL directly and tests can count
// handle creates/destroys.
//
// Both methods must be called on the thread that owns the graphics context.
type GPUDevice interface {
	UploadChunkMesh(coord ChunkCoord, mesh MeshData) (GPUHandle, error)
	DeleteChunkMesh(coord ChunkCoord, handle GPUHandle)
}
