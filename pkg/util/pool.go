package util

import "runtime"

// GetOptimalPoolSize returns the default worker count for parallel jobs
// such as static export and snippet analysis.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Twice the core count because export workers spend most of their time
// writing files and parser workers block in CGO.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// GetOptimalPoolSizeWithOverride uses override when it is positive and
// GetOptimalPoolSize otherwise.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
