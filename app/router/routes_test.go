package router

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := generateRequestID()
		require.Len(t, id, 16)
		_, err := hex.DecodeString(id)
		assert.NoError(t, err)

		_, dup := seen[id]
		assert.False(t, dup, "request ids must not repeat")
		seen[id] = struct{}{}
	}
}
