package observability

import (
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// RelayStats is a point-in-time view of the relay state.
type RelayStats struct {
	Topic              string `json:"topic"`
	Subscribers        int    `json:"subscribers"`
	Sessions           int    `json:"sessions"`
	JoinedSessions     int    `json:"joined_sessions"`
	PendingBroadcast   int    `json:"pending_broadcast"`
	PendingPersistence int    `json:"pending_persistence"`
}

type ProcessStats struct {
	PID        int32   `json:"pid"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Goroutines int     `json:"goroutines"`
}

type Snapshot struct {
	Relay   RelayStats   `json:"relay"`
	Process ProcessStats `json:"process"`
	At      time.Time    `json:"at"`
}

type RelayStatsProvider interface {
	Stats() RelayStats
}

// Monitor combines relay statistics with the resource usage of the current process.
type Monitor struct {
	log     *slog.Logger
	relay   RelayStatsProvider
	process *process.Process
}

func NewMonitor(log *slog.Logger, relay RelayStatsProvider) (*Monitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Monitor{log: log, relay: relay, process: p}, nil
}

// Snapshot never fails, process metrics that cannot be read are left empty.
func (m *Monitor) Snapshot() Snapshot {
	return Snapshot{
		Relay:   m.relay.Stats(),
		Process: m.processStats(),
		At:      time.Now().UTC(),
	}
}

func (m *Monitor) processStats() ProcessStats {
	stats := ProcessStats{PID: m.process.Pid, Goroutines: goruntime.NumGoroutine()}

	memInfo, err := m.process.MemoryInfo()
	if err != nil {
		m.log.Debug("Failed to read memory info", "error", err)
	} else {
		stats.RSSBytes = memInfo.RSS
	}

	cpuPercent, err := m.process.CPUPercent()
	if err != nil {
		m.log.Debug("Failed to read cpu usage", "error", err)
	} else {
		stats.CPUPercent = cpuPercent
	}
	return stats
}
