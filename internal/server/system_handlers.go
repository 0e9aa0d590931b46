package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/limitup/internal/config"
	"github.com/aristath/limitup/internal/database"
	"github.com/aristath/limitup/internal/scheduler"
)

// SystemHandlers serves host status and manual job triggers
type SystemHandlers struct {
	log       zerolog.Logger
	cfg       *config.Config
	databases []*database.DB
	jobs      map[string]scheduler.Job
	scheduler *scheduler.Scheduler // nil runs triggered jobs directly without history
	startedAt time.Time
}

// NewSystemHandlers creates system handlers. cfg may be nil.
func NewSystemHandlers(log zerolog.Logger, cfg *config.Config, databases []*database.DB, jobs map[string]scheduler.Job) *SystemHandlers {
	if jobs == nil {
		jobs = make(map[string]scheduler.Job)
	}
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		cfg:       cfg,
		databases: databases,
		jobs:      jobs,
		startedAt: time.Now(),
	}
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status        string                     `json:"status"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	CPUPercent    float64                    `json:"cpu_percent"`
	MemoryPercent float64                    `json:"memory_percent"`
	MemoryUsedMB  uint64                     `json:"memory_used_mb"`
	Goroutines    int                        `json:"goroutines"`
	Databases     map[string]*database.Stats `json:"databases"`
	Settings      *SettingsSummary           `json:"settings,omitempty"`
}

// SettingsSummary exposes the review settings in effect
type SettingsSummary struct {
	Timezone        string `json:"timezone"`
	TopK            int    `json:"top_k"`
	MaxLookbackDays int    `json:"max_lookback_days"`
	LabelLocale     string `json:"label_locale"`
	ImportSchedule  string `json:"import_schedule"`
}

// JobResponse is the body of a manual job trigger
type JobResponse struct {
	Job        string `json:"job"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// HandleSystemStatus returns host and database statistics
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	response := SystemStatusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		Databases:     make(map[string]*database.Stats),
	}

	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		response.CPUPercent = percents[0]
	} else if err != nil {
		h.log.Debug().Err(err).Msg("Failed to read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemoryPercent = vm.UsedPercent
		response.MemoryUsedMB = vm.Used / 1024 / 1024
	} else {
		h.log.Debug().Err(err).Msg("Failed to read memory usage")
	}

	for _, db := range h.databases {
		if db == nil {
			continue
		}
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			response.Status = "degraded"
			continue
		}
		response.Databases[db.Name()] = stats
	}

	if h.cfg != nil {
		response.Settings = &SettingsSummary{
			Timezone:        h.cfg.Timezone,
			TopK:            h.cfg.TopK,
			MaxLookbackDays: h.cfg.MaxLookbackDays,
			LabelLocale:     h.cfg.LabelLocale,
			ImportSchedule:  h.cfg.ImportSchedule,
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleListJobs lists the jobs that can be triggered manually
func (h *SystemHandlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	response := map[string]interface{}{
		"total_jobs": len(names),
		"jobs":       names,
	}
	if h.scheduler != nil {
		response["history"] = h.scheduler.Statuses()
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTriggerJob runs a job synchronously
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.jobs[name]
	if !ok {
		http.Error(w, "Unknown job: "+name, http.StatusNotFound)
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job trigger")
	start := time.Now()
	var err error
	if h.scheduler != nil {
		err = h.scheduler.RunNow(job)
	} else {
		err = job.Run()
	}

	response := JobResponse{
		Job:        name,
		Status:     "success",
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		response.Status = "failed"
		response.Error = err.Error()
		h.writeJSON(w, http.StatusInternalServerError, response)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
