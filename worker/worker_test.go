package worker

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/15mga/sigecs/util"
	"github.com/stretchr/testify/assert"
)

type movement struct {
	pos, dir util.Vec2
	speed    float32
}

func TestP(t *testing.T) {
	for _, count := range []int{0, 1, 63, 64, 65, 1000, 4097} {
		t.Run(fmt.Sprintf("count_%d", count), func(t *testing.T) {
			data := make([]*movement, count)
			for i := range data {
				data[i] = &movement{dir: util.Vec2{X: 1}, speed: 2}
			}
			var n int64
			P(16, data, func(m *movement) {
				m.pos = util.Vec2Add(m.pos, util.Vec2Mul(m.dir, m.speed))
				atomic.AddInt64(&n, 1)
			})
			assert.Equal(t, int64(count), n)
			for _, m := range data {
				assert.Equal(t, util.Vec2{X: 2}, m.pos)
			}
		})
	}
}

func TestPEach(t *testing.T) {
	var mtx sync.Mutex
	seen := make(map[int]bool)
	fns := make([]util.Fn, 5)
	for i := range fns {
		idx := i
		fns[i] = func() {
			mtx.Lock()
			seen[idx] = true
			mtx.Unlock()
		}
	}
	PEach(fns)
	assert.Len(t, seen, 5)
}

func TestWorkerOrder(t *testing.T) {
	var got []int
	w := NewWorker(func(i int) {
		got = append(got, i)
	})
	w.Start()
	for i := 0; i < 100; i++ {
		w.Push(i)
	}
	w.Dispose()
	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	w.Push(101)
	assert.Len(t, got, 100)
}

func TestWorkerRecover(t *testing.T) {
	var n int
	w := NewWorker(func(i int) {
		if i == 1 {
			panic("boom")
		}
		n++
	})
	w.Start()
	w.Push(0)
	w.Push(1)
	w.Push(2)
	w.Dispose()
	assert.Equal(t, 2, n)
}

func BenchmarkP(b *testing.B) {
	for _, count := range []int{100, 1000, 10000} {
		data := make([]*movement, count)
		for i := range data {
			data[i] = &movement{dir: util.Vec2{X: 1, Y: 1}, speed: 1}
		}
		b.Run(fmt.Sprintf("serial_%d", count), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				for _, m := range data {
					m.pos = util.Vec2Add(m.pos, util.Vec2Mul(m.dir, m.speed))
				}
			}
		})
		b.Run(fmt.Sprintf("p_%d", count), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				P(64, data, func(m *movement) {
					m.pos = util.Vec2Add(m.pos, util.Vec2Mul(m.dir, m.speed))
				})
			}
		})
	}
}
