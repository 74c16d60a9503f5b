//go:build !linux

package metrics

func kernelRelease() string { return "" }

func memTotal() uint64 { return 0 }

func affinityCPUs() int { return 0 }
