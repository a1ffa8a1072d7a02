package save

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

// Chunk payloads are stored as zstd-compressed little-endian uint16
// arrays. Encoding a full render distance of chunks is the expensive
// part of a save, so blobs are compressed in parallel.

var (
	zstdEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDec, _ = zstd.NewReader(nil)
)

type chunkRow struct {
	cx, cz int
	blob   []byte
}

func encodeChunkRows(chunks []world.ChunkSnapshot) ([]chunkRow, error) {
	rows := make([]chunkRow, len(chunks))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, snap := range chunks {
		i, snap := i, snap
		g.Go(func() error {
			rows[i] = chunkRow{
				cx:   snap.Coord.X,
				cz:   snap.Coord.Z,
				blob: encodeBlocks(snap.Blocks),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func encodeBlocks(blocks []world.BlockType) []byte {
	raw := make([]byte, len(blocks)*2)
	for i, b := range blocks {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(b))
	}
	return zstdEnc.EncodeAll(raw, nil)
}

func decodeBlocks(blob []byte) ([]world.BlockType, error) {
	raw, err := zstdDec.DecodeAll(blob, nil)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("odd payload length %d", len(raw))
	}
	if len(raw)/2 != world.ChunkVolume {
		return nil, fmt.Errorf("payload holds %d blocks, want %d", len(raw)/2, world.ChunkVolume)
	}
	blocks := make([]world.BlockType, len(raw)/2)
	for i := range blocks {
		blocks[i] = world.BlockType(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return blocks, nil
}
