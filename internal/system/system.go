// Package system sizes the preview render pool against the machine it runs
// on and recycles image buffers between renders.
package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// bytesPerWorker is a rough upper bound on one render worker's image
// footprint (a few RGBA graphs plus scaling scratch).
const bytesPerWorker = 64 << 20

// RecommendedWorkers picks a render worker count from the logical CPU count,
// capped by available memory so a small machine is not pushed into swap.
func RecommendedWorkers() int {
	workers := runtime.NumCPU()
	if counts, err := cpu.Counts(true); err == nil && counts > 0 {
		workers = counts
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
		if byMem := int(vm.Available / bytesPerWorker); byMem < workers {
			workers = byMem
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

// StatsLine is a one-line resource summary for the CLI's -stats output.
func StatsLine() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	line := fmt.Sprintf("goroutines=%d heap=%.1fMB", runtime.NumGoroutine(), float64(m.HeapAlloc)/(1<<20))
	if vm, err := mem.VirtualMemory(); err == nil {
		line += fmt.Sprintf(" sys-mem=%.0f%%", vm.UsedPercent)
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		line += fmt.Sprintf(" sys-cpu=%.0f%%", percents[0])
	}
	return line
}
