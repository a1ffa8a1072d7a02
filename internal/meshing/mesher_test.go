package meshing

import (
	"testing"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

func blockAt(x, y, z int) int {
	return (x*world.ChunkSizeY+y)*world.ChunkSizeZ + z
}

func chunkWith(coord world.ChunkCoord, set func(blocks []world.BlockType)) *world.Chunk {
	c := world.NewChunk(coord)
	blocks := make([]world.BlockType, world.ChunkVolume)
	if set != nil {
		set(blocks)
	}
	c.SetBlocks(blocks)
	return c
}

func TestBuildMeshEmptyChunk(t *testing.T) {
	b := NewBuilder()

	// no payload at all
	mesh, err := b.BuildMesh(world.NewChunk(world.ChunkCoord{X: 0, Z: 0}))
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	if !mesh.Empty() {
		t.Error("chunk without payload produced geometry")
	}

	// all-air payload
	mesh, err = b.BuildMesh(chunkWith(world.ChunkCoord{X: 0, Z: 0}, nil))
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	if !mesh.Empty() {
		t.Error("all-air chunk produced geometry")
	}
}

func TestBuildMeshSingleBlock(t *testing.T) {
	b := NewBuilder()
	c := chunkWith(world.ChunkCoord{X: 0, Z: 0}, func(blocks []world.BlockType) {
		blocks[blockAt(8, 10, 8)] = world.BlockTypeStone
	})

	mesh, err := b.BuildMesh(c)
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	// 6 exposed faces, 4 vertices and 6 indices each
	if got := len(mesh.Vertices); got != 6*4*VertexFloats {
		t.Errorf("vertex floats = %d, want %d", got, 6*4*VertexFloats)
	}
	if got := len(mesh.Indices); got != 6*6 {
		t.Errorf("indices = %d, want %d", got, 6*6)
	}
}

func TestBuildMeshCullsSharedFaces(t *testing.T) {
	b := NewBuilder()
	c := chunkWith(world.ChunkCoord{X: 0, Z: 0}, func(blocks []world.BlockType) {
		blocks[blockAt(4, 10, 4)] = world.BlockTypeDirt
		blocks[blockAt(5, 10, 4)] = world.BlockTypeDirt
	})

	mesh, err := b.BuildMesh(c)
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	// two cubes minus the shared face pair: 10 faces
	if got := len(mesh.Indices); got != 10*6 {
		t.Errorf("indices = %d, want %d", got, 10*6)
	}
}

func TestBuildMeshChunkBorderClosed(t *testing.T) {
	b := NewBuilder()
	// corner block; out-of-chunk neighbors count as air
	c := chunkWith(world.ChunkCoord{X: 0, Z: 0}, func(blocks []world.BlockType) {
		blocks[blockAt(0, 0, 0)] = world.BlockTypeBedrock
	})

	mesh, err := b.BuildMesh(c)
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	if got := len(mesh.Indices); got != 6*6 {
		t.Errorf("indices = %d, want all 6 faces of a corner block", got)
	}
}

func TestBuildMeshWorldSpacePositions(t *testing.T) {
	b := NewBuilder()
	coord := world.ChunkCoord{X: 2, Z: -1}
	c := chunkWith(coord, func(blocks []world.BlockType) {
		blocks[blockAt(0, 0, 0)] = world.BlockTypeStone
	})

	mesh, err := b.BuildMesh(c)
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	if mesh.Empty() {
		t.Fatal("no geometry")
	}

	minX, minZ := mesh.Vertices[0], mesh.Vertices[2]
	for i := 0; i < len(mesh.Vertices); i += VertexFloats {
		if x := mesh.Vertices[i]; x < minX {
			minX = x
		}
		if z := mesh.Vertices[i+2]; z < minZ {
			minZ = z
		}
	}
	wantX := float32(coord.X * world.ChunkSizeX)
	wantZ := float32(coord.Z * world.ChunkSizeZ)
	if minX != wantX || minZ != wantZ {
		t.Errorf("mesh min corner = (%v, %v), want world-space (%v, %v)", minX, minZ, wantX, wantZ)
	}
}

func BenchmarkBuildMesh(b *testing.B) {
	gen := world.NewHeightmapGenerator(42)
	coord := world.ChunkCoord{X: 0, Z: 0}
	blocks, err := gen.Generate(coord, 42)
	if err != nil {
		b.Fatalf("Generate: %v", err)
	}
	c := world.NewChunk(coord)
	c.SetBlocks(blocks)

	builder := NewBuilder()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.BuildMesh(c); err != nil {
			b.Fatal(err)
		}
	}
}
