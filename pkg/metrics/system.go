package metrics

import (
	"os"
	"runtime"

	"github.com/cloud-bulldozer/memperf/pkg/logging"
)

// NodeInfo stores the metadata of the host the measurements ran on
type NodeInfo struct {
	Hostname   string `json:"hostname"`
	Kernel     string `json:"kernel"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	CPUs       int    `json:"cpus"`
	UsableCPUs int    `json:"usableCPUs"`
	MemTotal   uint64 `json:"memTotal"`
	GoVersion  string `json:"goVersion"`
}

// NodeDetails collects host details. Fields the platform cannot report
// are left empty.
func NodeDetails() NodeInfo {
	info := NodeInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		CPUs:       runtime.NumCPU(),
		UsableCPUs: UsableCPUs(),
		GoVersion:  runtime.Version(),
	}
	host, err := os.Hostname()
	if err != nil {
		logging.Warnf("Unable to determine hostname: %v", err)
	} else {
		info.Hostname = host
	}
	info.Kernel = kernelRelease()
	info.MemTotal = memTotal()
	logging.Debugf("Node details: %+v", info)
	return info
}

// UsableCPUs returns the number of CPUs this process may run on. It is the
// default upper bound of the worker sweep.
func UsableCPUs() int {
	if n := affinityCPUs(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
