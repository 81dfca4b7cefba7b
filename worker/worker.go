package worker

import (
	"fmt"
	"sync"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
)

func NewWorker[T any](fn func(T)) *Worker[T] {
	return &Worker[T]{
		ch: make(chan struct{}, 1),
		fn: fn,
	}
}

// Worker runs fn on one goroutine for every pushed item, in push order.
type Worker[T any] struct {
	mtx      sync.Mutex
	ch       chan struct{}
	items    []T
	swap     []T
	fn       func(T)
	disposed bool
	wg       sync.WaitGroup
}

func (w *Worker[T]) Start() {
	w.wg.Add(1)
	go w.loop()
}

func (w *Worker[T]) loop() {
	defer w.wg.Done()
	for range w.ch {
		w.drain()
	}
	w.drain()
}

func (w *Worker[T]) drain() {
	for {
		w.mtx.Lock()
		if len(w.items) == 0 {
			w.mtx.Unlock()
			return
		}
		w.items, w.swap = w.swap[:0], w.items
		w.mtx.Unlock()

		for i, item := range w.swap {
			w.do(item)
			w.swap[i] = util.Default[T]()
		}
	}
}

func (w *Worker[T]) do(item T) {
	defer func() {
		if r := recover(); r != nil {
			sigecs.Error2(util.EcRecover, util.M{
				"error": fmt.Sprint(r),
			})
		}
	}()
	w.fn(item)
}

func (w *Worker[T]) Push(item T) {
	w.mtx.Lock()
	if w.disposed {
		w.mtx.Unlock()
		return
	}
	w.items = append(w.items, item)
	select {
	case w.ch <- struct{}{}:
	default:
	}
	w.mtx.Unlock()
}

// Dispose stops accepting items and waits until the queued ones are processed.
func (w *Worker[T]) Dispose() {
	w.mtx.Lock()
	if w.disposed {
		w.mtx.Unlock()
		return
	}
	w.disposed = true
	w.mtx.Unlock()
	close(w.ch)
	w.wg.Wait()
}
