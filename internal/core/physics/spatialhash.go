package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/planar/internal/core/math2d"
)

const (
	// DefaultCellSize is the broad-phase cell edge in world units. It
	// should be at least as large as the biggest collider.
	DefaultCellSize = 64.0

	// bucketCount is the fixed bucket table size; must be a power of two.
	// Distinct cells may share a bucket, which only costs extra narrow
	// phase candidates.
	bucketCount = 1024
)

// spatialHash maps grid cells to body slots via xxhash of the cell
// coordinates into a fixed bucket table. It is rebuilt every step. Bucket
// iteration order and within-bucket order are both deterministic, so the
// narrow phase sees pairs in a stable order across runs.
type spatialHash struct {
	cellSize float64
	buckets  [bucketCount][]uint32
}

func newSpatialHash(cellSize float64) *spatialHash {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &spatialHash{cellSize: cellSize}
}

// reset clears all buckets but keeps their capacity for reuse.
func (h *spatialHash) reset() {
	for i := range h.buckets {
		h.buckets[i] = h.buckets[i][:0]
	}
}

// insert registers the slot in the cell containing pos and the 8 neighbor
// cells, so pairs straddling a cell boundary still share a bucket.
func (h *spatialHash) insert(slot uint32, pos math2d.Vector2) {
	cx := int64(math.Floor(pos.X / h.cellSize))
	cy := int64(math.Floor(pos.Y / h.cellSize))

	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			idx := bucketIndex(cx+dx, cy+dy)
			h.buckets[idx] = append(h.buckets[idx], slot)
		}
	}
}

func bucketIndex(cx, cy int64) uint64 {
	var key [16]byte
	binary.LittleEndian.PutUint64(key[0:8], uint64(cx))
	binary.LittleEndian.PutUint64(key[8:16], uint64(cy))
	return xxhash.Sum64(key[:]) & (bucketCount - 1)
}
