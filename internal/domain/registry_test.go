package domain

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopiedRegistry_Claim(t *testing.T) {
	registry := NewCopiedRegistry()

	assert.True(t, registry.Claim("/out/a.exr"))
	assert.False(t, registry.Claim("/out/a.exr"))
	assert.True(t, registry.Claim("/out/b.exr"))
	assert.True(t, registry.Has("/out/a.exr"))
	assert.False(t, registry.Has("/out/c.exr"))
	assert.Equal(t, 2, registry.Len())
}

func TestCopiedRegistry_ConcurrentClaimHasOneWinner(t *testing.T) {
	registry := NewCopiedRegistry()

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)

	for range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if registry.Claim("/out/shared.exr") {
				winners.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Equal(t, 1, registry.Len())
}
