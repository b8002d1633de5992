package domain

import (
	"errors"
	"fmt"
)

var ErrNegativeResource = errors.New("resource amounts should not be negative")

// ResourceRequirements describes what a ModelVersion needs to be deployed.
//
// All amounts are non-negative. MinMemoryMB is the floor below which the
// model cannot run at all; it has no counterpart in ResourceCapacity and is
// not part of the fit check.
type ResourceRequirements struct {
	MemoryMB    int `json:"memory_mb" yaml:"memory_mb"`
	GPUVRAMMB   int `json:"gpu_vram_mb" yaml:"gpu_vram_mb"`
	CPUThreads  int `json:"cpu_threads" yaml:"cpu_threads"`
	GPUCount    int `json:"gpu_count" yaml:"gpu_count"`
	MinMemoryMB int `json:"min_memory_mb" yaml:"min_memory_mb"`
	DiskSpaceMB int `json:"disk_space_mb" yaml:"disk_space_mb"`
}

func (r ResourceRequirements) Validate() error {
	for _, dim := range []struct {
		name  string
		value int
	}{
		{"memory_mb", r.MemoryMB},
		{"gpu_vram_mb", r.GPUVRAMMB},
		{"cpu_threads", r.CPUThreads},
		{"gpu_count", r.GPUCount},
		{"min_memory_mb", r.MinMemoryMB},
		{"disk_space_mb", r.DiskSpaceMB},
	} {
		if dim.value < 0 {
			return fmt.Errorf("%w: %s = %d", ErrNegativeResource, dim.name, dim.value)
		}
	}
	return nil
}

// FitsIn is true iff every dimension of r (MinMemoryMB excluded) is no more
// than the corresponding dimension of c. It is a pure predicate.
func (r ResourceRequirements) FitsIn(c ResourceCapacity) bool {
	return r.MemoryMB <= c.MemoryMB &&
		r.GPUVRAMMB <= c.GPUVRAMMB &&
		r.CPUThreads <= c.CPUThreads &&
		r.GPUCount <= c.GPUCount &&
		r.DiskSpaceMB <= c.DiskSpaceMB
}

// ResourceCapacity describes resources available at a node or runtime.
type ResourceCapacity struct {
	MemoryMB    int `json:"memory_mb" yaml:"memory_mb"`
	GPUVRAMMB   int `json:"gpu_vram_mb" yaml:"gpu_vram_mb"`
	CPUThreads  int `json:"cpu_threads" yaml:"cpu_threads"`
	GPUCount    int `json:"gpu_count" yaml:"gpu_count"`
	DiskSpaceMB int `json:"disk_space_mb" yaml:"disk_space_mb"`
}

func (c ResourceCapacity) Validate() error {
	for _, dim := range []struct {
		name  string
		value int
	}{
		{"memory_mb", c.MemoryMB},
		{"gpu_vram_mb", c.GPUVRAMMB},
		{"cpu_threads", c.CPUThreads},
		{"gpu_count", c.GPUCount},
		{"disk_space_mb", c.DiskSpaceMB},
	} {
		if dim.value < 0 {
			return fmt.Errorf("%w: %s = %d", ErrNegativeResource, dim.name, dim.value)
		}
	}
	return nil
}
