package embedding

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalGeneratorLoadsOnce(t *testing.T) {
	g := NewLocalGenerator("model.onnx", "vocab.txt", "", 4)
	var loads int32
	g.loadFn = func() error {
		atomic.AddInt32(&loads, 1)
		time.Sleep(10 * time.Millisecond)
		return errors.New("load failed")
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Embed(context.Background(), []string{"x"})
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads), "a failed load must stick, not retry")

	_, err := g.Embed(context.Background(), []string{"x"})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestLocalGeneratorMissingModel(t *testing.T) {
	g := NewLocalGenerator("/nonexistent/model.onnx", "/nonexistent/vocab.txt", "", 0)
	_, err := g.Embed(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.Equal(t, 384, g.Dimensions())
}

func TestMeanPool(t *testing.T) {
	// Two token positions, hidden size 2: means are (2, 4) before
	// normalization.
	vec := meanPool([]float32{1, 2, 3, 6}, 2)
	require.Len(t, vec, 2)

	norm := math.Sqrt(float64(vec[0]*vec[0] + vec[1]*vec[1]))
	assert.InDelta(t, 1.0, norm, 1e-6)
	assert.InDelta(t, 0.5, vec[0]/vec[1], 1e-6)
}

func TestMeanPoolShortData(t *testing.T) {
	vec := meanPool([]float32{1}, 4)
	assert.Equal(t, []float32{0, 0, 0, 0}, vec)
}
