package sigecs

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/15mga/sigecs/util"
)

type exitHook struct {
	name string
	fn   util.Fn
}

var (
	_ExitMtx   sync.Mutex
	_ExitHooks = make([]exitHook, 0, 2)
)

// BeforeExitFn registers fn to run, concurrently with other hooks, once WaitExit unblocks.
func BeforeExitFn(name string, fn util.Fn) {
	_ExitMtx.Lock()
	_ExitHooks = append(_ExitHooks, exitHook{
		name: name,
		fn:   fn,
	})
	_ExitMtx.Unlock()
}

// BeforeExitCh returns a channel the owner closes when it has finished shutting down.
func BeforeExitCh(name string) chan<- struct{} {
	ch := make(chan struct{})
	BeforeExitFn(name, func() {
		<-ch
	})
	return ch
}

// WaitExit blocks until a termination signal arrives or util.Ctx is cancelled,
// then cancels util.Ctx and waits for every exit hook, at most timeout.
func WaitExit(timeout time.Duration) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signalCh)
	select {
	case <-util.Ctx().Done():
		Info("context done", nil)
	case s := <-signalCh:
		Info("signal notify", util.M{
			"signal": s.String(),
		})
		util.Cancel()
	}
	RunExitHooks(timeout)
}

// RunExitHooks runs the registered hooks and reports whether all of them finished in time.
func RunExitHooks(timeout time.Duration) bool {
	_ExitMtx.Lock()
	hooks := _ExitHooks
	_ExitHooks = make([]exitHook, 0, 2)
	_ExitMtx.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(hooks))
	for _, hook := range hooks {
		go func(h exitHook) {
			defer wg.Done()
			h.fn()
			Info("exit", util.M{
				"name": h.name,
			})
		}(hook)
	}

	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
		Info("exit timeout", nil)
		return false
	case <-waitCh:
		Info("exit complete", nil)
		return true
	}
}
