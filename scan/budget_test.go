package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBatchWidthBranches(t *testing.T) {
	cases := []struct {
		name     string
		override int
		soft     uint64
		want     int
	}{
		{"soft limit covers desired", 0, 10000, int(AvgBatch)},
		{"override honored when soft limit covers it", 200, 10000, 200},
		// spec scenario S6: override=100, soft limit=50 -> B=25.
		{"low soft limit halves", 100, 50, 25},
		{"no override, low soft limit halves", 0, 50, 25},
		{"override above soft limit, soft limit high caps at AvgBatch", 20000, 9000, int(AvgBatch)},
		{"override above soft limit, soft limit mid leaves headroom", 20000, 5000, 5000 - int(lowULimitHeadroom)},
		{"result never exceeds MaxBatch", int(MaxBatch) + 5000, int(MaxBatch) + 5000, int(MaxBatch)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := computeBatchWidth(c.override, c.soft)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestClampBatchNeverExceedsMax(t *testing.T) {
	assert.Equal(t, MaxBatch, clampBatch(MaxBatch*10))
}

func TestClampBatchPreservesSubMinimumValues(t *testing.T) {
	// See DESIGN.md: MIN_BATCH is not applied, so a genuinely FD-starved
	// host's computed budget stays below it.
	assert.Equal(t, uint64(25), clampBatch(25))
}

func TestClampBatchNeverZero(t *testing.T) {
	assert.Equal(t, uint64(1), clampBatch(0))
}
