package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/modules/universe"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers serves health and system status endpoints.
type SystemHandlers struct {
	log       zerolog.Logger
	directory *universe.Directory
	databases []*database.DB
	startTime time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, directory *universe.Directory, databases []*database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		directory: directory,
		databases: databases,
		startTime: time.Now().UTC(),
	}
}

// HandleHealth is the liveness check
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type databaseStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
}

type systemStatus struct {
	Status        string           `json:"status"`
	UptimeSeconds float64          `json:"uptimeSeconds"`
	CPUPercent    float64          `json:"cpuPercent"`
	RAMPercent    float64          `json:"ramPercent"`
	Goroutines    int              `json:"goroutines"`
	Instruments   int              `json:"instruments"`
	DirectoryAge  float64          `json:"directoryAgeSeconds"`
	Databases     []databaseStatus `json:"databases"`
}

// HandleSystemStatus reports process and dependency health
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.systemStats()

	status := systemStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		Instruments:   h.directory.Len(),
		DirectoryAge:  time.Since(h.directory.LoadedAt()).Seconds(),
	}

	for _, db := range h.databases {
		if db == nil {
			continue
		}
		healthy := db.Conn().PingContext(r.Context()) == nil
		if !healthy {
			status.Status = "degraded"
		}
		status.Databases = append(status.Databases, databaseStatus{
			Name:    db.Name(),
			Healthy: healthy,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// systemStats samples CPU over a short window to keep the endpoint fast.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}
