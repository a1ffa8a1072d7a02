// Package meshing turns chunk voxel data into GPU-ready vertex and index
// buffers. It runs on the generation worker and never touches GL state.
package meshing

import (
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

// VertexFloats is the stride of one vertex: position, normal, color.
const VertexFloats = 9

// face describes one cube face: its outward normal and corner offsets.
type face struct {
	normal  [3]float32
	corners [4][3]float32
}

var faces = [6]face{
	{normal: [3]float32{0, 0, 1}, corners: [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},  // north
	{normal: [3]float32{0, 0, -1}, corners: [4][3]float32{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}}}, // south
	{normal: [3]float32{1, 0, 0}, corners: [4][3]float32{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}},  // east
	{normal: [3]float32{-1, 0, 0}, corners: [4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}}, // west
	{normal: [3]float32{0, 1, 0}, corners: [4][3]float32{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}}},  // top
	{normal: [3]float32{0, -1, 0}, corners: [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}}, // bottom
}

var neighborOffsets = [6][3]int{
	{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
}

// blockColors maps block types to flat face colors.
var blockColors = map[world.BlockType][3]float32{
	world.BlockTypeGrass:   {0.35, 0.62, 0.28},
	world.BlockTypeDirt:    {0.48, 0.33, 0.20},
	world.BlockTypeStone:   {0.52, 0.52, 0.54},
	world.BlockTypeBedrock: {0.18, 0.18, 0.20},
}

// Builder is the default face-culling mesher: it emits one quad for
// every block face adjacent to air. Chunk-local only; blocks outside the
// chunk count as air, so chunk borders always render closed.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// BuildMesh constructs the vertex/index buffers for one chunk. Positions
// are world-space so the renderer needs no per-chunk model matrix.
func (b *Builder) BuildMesh(c *world.Chunk) (world.MeshData, error) {
	var verts []float32
	var indices []uint32

	baseX := float32(c.Coord.X * world.ChunkSizeX)
	baseZ := float32(c.Coord.Z * world.ChunkSizeZ)

	for x := 0; x < world.ChunkSizeX; x++ {
		for y := 0; y < world.ChunkSizeY; y++ {
			for z := 0; z < world.ChunkSizeZ; z++ {
				block := c.Block(x, y, z)
				if !block.IsOpaque() {
					continue
				}
				color := blockColors[block]
				for fi, f := range faces {
					off := neighborOffsets[fi]
					if c.Block(x+off[0], y+off[1], z+off[2]).IsOpaque() {
						continue
					}
					base := uint32(len(verts) / VertexFloats)
					for _, corner := range f.corners {
						verts = append(verts,
							baseX+float32(x)+corner[0],
							float32(y)+corner[1],
							baseZ+float32(z)+corner[2],
							f.normal[0], f.normal[1], f.normal[2],
							color[0], color[1], color[2],
						)
					}
					indices = append(indices, base, base+1, base+2, base, base+2, base+3)
				}
			}
		}
	}

	return world.MeshData{Vertices: verts, Indices: indices}, nil
}
