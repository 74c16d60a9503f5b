//go:build linux

package metrics

import (
	"github.com/cloud-bulldozer/memperf/pkg/logging"
	"golang.org/x/sys/unix"
)

func kernelRelease() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		logging.Warnf("Unable to read kernel release: %v", err)
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}

func memTotal() uint64 {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		logging.Warnf("Unable to read system memory: %v", err)
		return 0
	}
	return uint64(si.Totalram) * uint64(si.Unit)
}

func affinityCPUs() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		logging.Debugf("Unable to read CPU affinity: %v", err)
		return 0
	}
	return set.Count()
}
