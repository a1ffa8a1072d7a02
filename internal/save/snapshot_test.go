package save

import (
	"testing"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

func patternBlocks(salt int) []world.BlockType {
	blocks := make([]world.BlockType, world.ChunkVolume)
	for i := range blocks {
		blocks[i] = world.BlockType((i + salt) % 5)
	}
	return blocks
}

func TestEncodeDecodeBlocks(t *testing.T) {
	blocks := patternBlocks(3)
	blob := encodeBlocks(blocks)
	if len(blob) == 0 {
		t.Fatal("empty blob")
	}
	// the repetitive pattern must actually compress
	if len(blob) >= len(blocks)*2 {
		t.Errorf("blob is %d bytes for %d bytes raw, no compression", len(blob), len(blocks)*2)
	}

	got, err := decodeBlocks(blob)
	if err != nil {
		t.Fatalf("decodeBlocks: %v", err)
	}
	if len(got) != len(blocks) {
		t.Fatalf("decoded %d blocks, want %d", len(got), len(blocks))
	}
	for i := range blocks {
		if got[i] != blocks[i] {
			t.Fatalf("block %d = %v, want %v", i, got[i], blocks[i])
		}
	}
}

func TestDecodeBlocksRejectsGarbage(t *testing.T) {
	if _, err := decodeBlocks([]byte("not zstd at all")); err == nil {
		t.Error("garbage blob decoded without error")
	}
}

func TestDecodeBlocksRejectsWrongSize(t *testing.T) {
	short := make([]world.BlockType, 10)
	if _, err := decodeBlocks(encodeBlocks(short)); err == nil {
		t.Error("truncated payload decoded without error")
	}
}

func TestEncodeChunkRows(t *testing.T) {
	chunks := []world.ChunkSnapshot{
		{Coord: world.ChunkCoord{X: 0, Z: 0}, Blocks: patternBlocks(0)},
		{Coord: world.ChunkCoord{X: -3, Z: 7}, Blocks: patternBlocks(1)},
		{Coord: world.ChunkCoord{X: 12, Z: -5}, Blocks: patternBlocks(2)},
	}

	rows, err := encodeChunkRows(chunks)
	if err != nil {
		t.Fatalf("encodeChunkRows: %v", err)
	}
	if len(rows) != len(chunks) {
		t.Fatalf("got %d rows, want %d", len(rows), len(chunks))
	}
	for i, row := range rows {
		if row.cx != chunks[i].Coord.X || row.cz != chunks[i].Coord.Z {
			t.Errorf("row %d coord = (%d,%d), want %v", i, row.cx, row.cz, chunks[i].Coord)
		}
		got, err := decodeBlocks(row.blob)
		if err != nil {
			t.Fatalf("row %d decode: %v", i, err)
		}
		if got[0] != chunks[i].Blocks[0] {
			t.Errorf("row %d: blob does not match its source chunk", i)
		}
	}
}

func BenchmarkEncodeBlocks(b *testing.B) {
	blocks := patternBlocks(0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = encodeBlocks(blocks)
	}
}
