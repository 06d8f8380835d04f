package renderer

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a render runs on
type HostInfo struct {
	LogicalCores    int
	PhysicalCores   int
	ModelName       string
	TotalMemory     uint64 // bytes
	AvailableMemory uint64 // bytes; 0 when unknown
}

// DetectHost queries CPU and memory information. Detection failures degrade to
// runtime.NumCPU and unknown memory; the error is returned for logging.
func DetectHost() (HostInfo, error) {
	info := HostInfo{LogicalCores: runtime.NumCPU(), PhysicalCores: runtime.NumCPU()}
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCores = n
	} else if err != nil {
		keep(err)
	}
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		info.PhysicalCores = n
	} else if err != nil {
		keep(err)
	}
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.ModelName = cpus[0].ModelName
	} else if err != nil {
		keep(err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
		info.AvailableMemory = vm.Available
	} else {
		keep(err)
	}

	return info, firstErr
}

// bufferBytes is the memory held by one accumulation buffer
func bufferBytes(width, height int) uint64 {
	return uint64(width) * uint64(height) * 24
}
