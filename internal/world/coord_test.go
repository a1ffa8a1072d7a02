package world

import "testing"

func TestChunkCoordAt(t *testing.T) {
	tests := []struct {
		name   string
		wx, wz int
		want   ChunkCoord
	}{
		{name: "origin", wx: 0, wz: 0, want: ChunkCoord{0, 0}},
		{name: "inside first chunk", wx: 15, wz: 15, want: ChunkCoord{0, 0}},
		{name: "chunk boundary", wx: 16, wz: 0, want: ChunkCoord{1, 0}},
		{name: "negative flooring", wx: -1, wz: -1, want: ChunkCoord{-1, -1}},
		{name: "negative boundary", wx: -16, wz: -17, want: ChunkCoord{-1, -2}},
		{name: "mixed signs", wx: 31, wz: -33, want: ChunkCoord{1, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkCoordAt(tt.wx, tt.wz)
			if got != tt.want {
				t.Errorf("ChunkCoordAt(%d, %d) = %v, want %v", tt.wx, tt.wz, got, tt.want)
			}
		})
	}
}

func TestChebyshevDistance(t *testing.T) {
	tests := []struct {
		a, b ChunkCoord
		want int
	}{
		{ChunkCoord{0, 0}, ChunkCoord{0, 0}, 0},
		{ChunkCoord{0, 0}, ChunkCoord{3, 1}, 3},
		{ChunkCoord{0, 0}, ChunkCoord{1, 3}, 3},
		{ChunkCoord{-2, -2}, ChunkCoord{2, 2}, 4},
		{ChunkCoord{5, -1}, ChunkCoord{5, -8}, 7},
	}

	for _, tt := range tests {
		if got := tt.a.ChebyshevDistance(tt.b); got != tt.want {
			t.Errorf("%v.ChebyshevDistance(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		// symmetric
		if got := tt.b.ChebyshevDistance(tt.a); got != tt.want {
			t.Errorf("%v.ChebyshevDistance(%v) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestFloorMod(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 16, 0},
		{15, 16, 15},
		{16, 16, 0},
		{-1, 16, 15},
		{-16, 16, 0},
		{-17, 16, 15},
	}

	for _, tt := range tests {
		if got := floorMod(tt.a, tt.b); got != tt.want {
			t.Errorf("floorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
