package jobs

import (
	"log/slog"
	"time"

	"sortify/src/features/config"
)

// Scheduler polls the configuration and enqueues the auto_organize job at the
// configured interval. Polling keeps interval changes effective without a
// restart.
type Scheduler struct {
	configManager *config.Manager
	jobService    JobService
	stopChan      chan struct{}
	lastRun       time.Time
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfgManager *config.Manager, jobService JobService) *Scheduler {
	return &Scheduler{
		configManager: cfgManager,
		jobService:    jobService,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the polling loop.
func (s *Scheduler) Start() {
	go s.loop()
}

// Stop halts the polling loop.
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) tick() {
	cfg := s.configManager.Get().Matching.AutoOrganize
	if !cfg.Enabled {
		return
	}
	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if interval <= 0 {
		return
	}
	if time.Since(s.lastRun) < interval {
		return
	}
	s.lastRun = time.Now()

	jobID, err := s.jobService.StartJob("auto_organize", "Scheduled auto-organize", map[string]any{
		"dry_run":   cfg.DryRun,
		"scheduled": true,
	})
	if err != nil {
		slog.Error("Failed to start scheduled auto-organize job", "error", err)
		return
	}
	slog.Info("Scheduled auto-organize job started", "jobID", jobID, "dryRun", cfg.DryRun)
}
