package world

// BlockType is the voxel payload unit. The streaming core treats block
// arrays as opaque; only the generator and the mesher interpret them.
type BlockType uint16

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
	BlockTypeBedrock
)

// IsOpaque reports whether a block occludes the faces of its neighbors.
func (b BlockType) IsOpaque() bool {
	return b != BlockTypeAir
}
