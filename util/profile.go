package util

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	Cpu       = "cpu"
	Memory    = "mem"
	Heap      = "heap"
	Goroutine = "goroutine"
)

func GetCpuPercent(interval time.Duration) (float64, *Err) {
	percent, e := cpu.Percent(interval, false)
	if e != nil {
		return 0, WrapErr(EcServiceErr, e)
	}
	if len(percent) == 0 {
		return 0, NewErr(EcNotExist, M{"error": "no cpu sample"})
	}
	return percent[0], nil
}

func GetMemPercent() float64 {
	memInfo, e := mem.VirtualMemory()
	if e != nil {
		return 0
	}
	return memInfo.UsedPercent
}

// Sample reads host memory, process heap and goroutine count. Cpu is sampled
// over interval when interval > 0, on darwin it is skipped.
func Sample(interval time.Duration) M {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	status := M{
		Memory:    float32(GetMemPercent()),
		Heap:      ms.HeapAlloc,
		Goroutine: runtime.NumGoroutine(),
	}
	if interval > 0 && runtime.GOOS != "darwin" {
		if cp, err := GetCpuPercent(interval); err == nil {
			status[Cpu] = float32(cp)
		}
	}
	return status
}

// StartProfile samples every dur until ctx is done.
func StartProfile(ctx context.Context, dur time.Duration, receiver FnM) {
	go func() {
		ticker := time.NewTicker(dur)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				receiver(Sample(0))
			}
		}
	}()
}
