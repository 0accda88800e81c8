package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateGameID(t *testing.T) {
	// When: generating a batch of ids
	seen := make(map[string]struct{})
	for range 100 {
		id := GenerateGameID()

		// Then: each is twelve hex characters and unique
		assert.Len(t, id, 12)
		assert.Regexp(t, "^[0-9a-f]+$", id)
		assert.NotContains(t, seen, id)
		seen[id] = struct{}{}
	}
}
