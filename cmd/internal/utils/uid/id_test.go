package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[int64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := Generate()
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
