package utils

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemUsage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// GetSystemUsage samples CPU usage since the previous call (non-blocking)
// and the current memory usage. Failures leave the field at zero.
func GetSystemUsage() SystemUsage {
	var usage SystemUsage
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		usage.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		usage.MemoryPercent = vm.UsedPercent
	}
	return usage
}
