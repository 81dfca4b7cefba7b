package worker

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
	"github.com/panjf2000/ants/v2"
)

const (
	_JobUnit = 64
)

var (
	_PoolMtx     sync.Mutex
	_Pool        *ants.Pool
	_ParallelNum = runtime.NumCPU()
)

// InitParallel sizes the shared goroutine pool, size <= 0 means NumCPU.
func InitParallel(size int) *util.Err {
	_PoolMtx.Lock()
	defer _PoolMtx.Unlock()
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if _Pool != nil {
		_Pool.Tune(size)
		_ParallelNum = size
		return nil
	}
	p, e := ants.NewPool(size, ants.WithNonblocking(true), ants.WithPanicHandler(func(r any) {
		sigecs.Error2(util.EcRecover, util.M{
			"error": fmt.Sprint(r),
		})
	}))
	if e != nil {
		return util.WrapErr(util.EcServiceErr, e)
	}
	_Pool = p
	_ParallelNum = size
	return nil
}

func pool() *ants.Pool {
	_PoolMtx.Lock()
	p := _Pool
	_PoolMtx.Unlock()
	if p != nil {
		return p
	}
	if err := InitParallel(0); err != nil {
		panic(err)
	}
	return pool()
}

// Release closes the shared pool, the next use recreates it.
func Release() {
	_PoolMtx.Lock()
	defer _PoolMtx.Unlock()
	if _Pool == nil {
		return
	}
	_Pool.Release()
	_Pool = nil
}

func avgCount(l, min int) int {
	if min < 1 {
		min = _JobUnit
	}
	avg := l / _ParallelNum
	if l%_ParallelNum != 0 {
		avg++
	}
	if avg < min {
		avg = min
	}
	return avg
}

// P calls fn for every item, splitting data into chunks of at least min
// items run on the pool. The caller's goroutine takes the first chunk.
// P returns after every call finished.
func P[T any](min int, data []T, fn func(T)) {
	l := len(data)
	if l == 0 {
		return
	}
	avg := avgCount(l, min)
	if l <= avg {
		for _, d := range data {
			fn(d)
		}
		return
	}
	var wg sync.WaitGroup
	for start := avg; start < l; start += avg {
		end := start + avg
		if end > l {
			end = l
		}
		wg.Add(1)
		chunk := data[start:end]
		submit(&wg, func() {
			for _, d := range chunk {
				fn(d)
			}
		})
	}
	for _, d := range data[:avg] {
		fn(d)
	}
	wg.Wait()
}

// PEach runs every fn concurrently, one pool task each, and waits for all.
func PEach(fns []util.Fn) {
	switch len(fns) {
	case 0:
		return
	case 1:
		fns[0]()
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(fns) - 1)
	for _, fn := range fns[1:] {
		submit(&wg, fn)
	}
	fns[0]()
	wg.Wait()
}

func submit(wg *sync.WaitGroup, fn util.Fn) {
	task := func() {
		defer wg.Done()
		fn()
	}
	// a full pool, e.g. P called from a pool task, falls back to a goroutine
	if e := pool().Submit(task); e != nil {
		if e != ants.ErrPoolOverload {
			sigecs.Error3(util.EcServiceErr, e)
		}
		go task()
	}
}
