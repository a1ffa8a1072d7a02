package world

// TerrainGenerator produces a chunk's voxel payload from its coordinate
// and the world seed. Implementations must be safe for repeated calls
// from the generation worker.
type TerrainGenerator interface {
	Generate(coord ChunkCoord, seed int64) ([]BlockType, error)
	SurfaceHeight(wx, wz int) int
}

// HeightmapGenerator is the default terrain generator: an octave value
// noise heightmap with bedrock / stone / dirt / grass layering.
type HeightmapGenerator struct {
	seed        int64
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
}

func NewHeightmapGenerator(seed int64) *HeightmapGenerator {
	return &HeightmapGenerator{
		seed:        seed,
		scale:       1.0 / 64.0,
		baseHeight:  40,
		amp:         24,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// SurfaceHeight computes the terrain surface (block Y) at world X,Z.
func (g *HeightmapGenerator) SurfaceHeight(wx, wz int) int {
	n := octaveNoise2D(float64(wx)*g.scale, float64(wz)*g.scale, g.seed, g.octaves, g.persistence, g.lacunarity)
	h := float64(g.baseHeight) + n*g.amp
	if h < 1 {
		h = 1
	}
	if h > ChunkSizeY-1 {
		h = ChunkSizeY - 1
	}
	return int(h)
}

// Generate fills a chunk column by column from the heightmap.
func (g *HeightmapGenerator) Generate(coord ChunkCoord, seed int64) ([]BlockType, error) {
	blocks := make([]BlockType, ChunkVolume)
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			wx := coord.X*ChunkSizeX + lx
			wz := coord.Z*ChunkSizeZ + lz
			top := g.SurfaceHeight(wx, wz)
			for y := 0; y <= top; y++ {
				var b BlockType
				switch {
				case y == 0:
					b = BlockTypeBedrock
				case y == top:
					b = BlockTypeGrass
				case y >= top-3:
					b = BlockTypeDirt
				default:
					b = BlockTypeStone
				}
				blocks[blockIndex(lx, y, lz)] = b
			}
		}
	}
	return blocks, nil
}

// flatPayload is the error fallback installed after generation fails
// twice: a one-block bedrock slab so the chunk still renders and the
// pipeline never stalls on a broken coordinate.
func flatPayload() []BlockType {
	blocks := make([]BlockType, ChunkVolume)
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			blocks[blockIndex(lx, 0, lz)] = BlockTypeBedrock
		}
	}
	return blocks
}
