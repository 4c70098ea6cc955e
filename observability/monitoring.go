package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const maxRecentOperations = 20

// RecentOperation is one repository call shown by the inspector.
type RecentOperation struct {
	Family    string `json:"family"`
	Operation string `json:"operation"`
	Outcome   string `json:"outcome"`
	Timestamp string `json:"timestamp"`
}

// MonitoringStats aggregates what the inspector displays next to the rows.
type MonitoringStats struct {
	LSMSizeBytes     int64             `json:"lsm_size_bytes"`
	VlogSizeBytes    int64             `json:"vlog_size_bytes"`
	AllocMemMb       uint64            `json:"alloc_mem_mb"`
	NumGC            uint32            `json:"num_gc"`
	RecentOperations []RecentOperation `json:"recent_operations"`
}

// Monitor keeps the last repository operations and samples the store size.
type Monitor struct {
	log    *slog.Logger
	db     *badger.DB
	mu     sync.RWMutex
	recent []RecentOperation
}

func NewMonitor(log *slog.Logger, db *badger.DB) *Monitor {
	return &Monitor{
		log:    log,
		db:     db,
		recent: make([]RecentOperation, 0, maxRecentOperations),
	}
}

// Record adds an operation at the head of the recent list (thread-safe).
func (m *Monitor) Record(family, operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := RecentOperation{
		Family:    family,
		Operation: operation,
		Outcome:   outcome,
		Timestamp: time.Now().Format("15:04:05"),
	}
	m.recent = append([]RecentOperation{op}, m.recent...)
	if len(m.recent) > maxRecentOperations {
		m.recent = m.recent[:maxRecentOperations]
	}
}

func (m *Monitor) GetLatest() MonitoringStats {
	m.mu.RLock()
	recent := make([]RecentOperation, len(m.recent))
	copy(recent, m.recent)
	m.mu.RUnlock()

	stats := MonitoringStats{RecentOperations: recent}
	if m.db != nil {
		stats.LSMSizeBytes, stats.VlogSizeBytes = m.db.Size()
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	stats.AllocMemMb = mem.Alloc / 1024 / 1024
	stats.NumGC = mem.NumGC

	m.log.Debug("Stats sampled",
		"lsm_bytes", stats.LSMSizeBytes,
		"vlog_bytes", stats.VlogSizeBytes,
		"recent", len(recent),
	)
	return stats
}

// AsMap flattens the stats for the inspector page.
func (m *Monitor) AsMap() map[string]any {
	stats := m.GetLatest()
	return map[string]any{
		"lsm_size_bytes":    stats.LSMSizeBytes,
		"vlog_size_bytes":   stats.VlogSizeBytes,
		"alloc_mem_mb":      stats.AllocMemMb,
		"num_gc":            stats.NumGC,
		"recent_operations": stats.RecentOperations,
	}
}
