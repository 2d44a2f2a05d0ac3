package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelize_CoversAllItems(t *testing.T) {
	const n = 1000
	var touched [n]int32

	Parallelize(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})

	for i := 0; i < n; i++ {
		assert.Equal(t, int32(1), touched[i], "item %d", i)
	}
}

func TestParallelizeWithWorkers(t *testing.T) {
	t.Run("zero items is a no-op", func(t *testing.T) {
		called := false
		ParallelizeWithWorkers(0, 4, func(start, end int) { called = true })
		assert.False(t, called)
	})

	t.Run("single worker runs sequentially", func(t *testing.T) {
		var calls [][2]int
		ParallelizeWithWorkers(10, 1, func(start, end int) {
			calls = append(calls, [2]int{start, end})
		})
		assert.Equal(t, [][2]int{{0, 10}}, calls)
	})

	t.Run("workers capped by item count", func(t *testing.T) {
		var count int32
		ParallelizeWithWorkers(3, 100, func(start, end int) {
			atomic.AddInt32(&count, int32(end-start))
		})
		assert.Equal(t, int32(3), count)
	})

	t.Run("chunks partition without overlap", func(t *testing.T) {
		const n = 97 // 割り切れないサイズで端数チャンクを確認
		var touched [n]int32
		ParallelizeWithWorkers(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&touched[i], 1)
			}
		})
		for i := 0; i < n; i++ {
			assert.Equal(t, int32(1), touched[i])
		}
	})
}

func TestParallelizeWithThreshold(t *testing.T) {
	t.Run("below threshold stays on the calling goroutine", func(t *testing.T) {
		var calls [][2]int
		ParallelizeWithThreshold(10, 256, func(start, end int) {
			calls = append(calls, [2]int{start, end})
		})
		assert.Equal(t, [][2]int{{0, 10}}, calls)
	})

	t.Run("above threshold still covers every item", func(t *testing.T) {
		const n = 300
		var touched [n]int32
		ParallelizeWithThreshold(n, 256, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&touched[i], 1)
			}
		})
		for i := 0; i < n; i++ {
			assert.Equal(t, int32(1), touched[i])
		}
	})
}
