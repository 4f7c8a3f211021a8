// Package scheduler runs the place name refresh: an initial load, gocron
// jobs at the configured times of day, and a staleness monitor.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/metrics"
	"github.com/ctdata/ct-placenames/placenames/entities"
	"github.com/go-co-op/gocron"
)

const (
	refreshTimeout  = 10 * time.Minute
	staleAfter      = 25 * time.Hour
	monitorInterval = 1 * time.Hour
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler refreshes the data store from the parser
type Scheduler struct {
	dataStore   interfaces.DataStore
	parser      interfaces.Parser
	validator   interfaces.DataValidator
	scheduler   *gocron.Scheduler
	updateTimes []ClockTime
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewScheduler creates a scheduler with injected dependencies. An empty
// updateTimes uses DefaultUpdateTimes.
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser, validator interfaces.DataValidator, updateTimes []ClockTime) *Scheduler {
	if len(updateTimes) == 0 {
		updateTimes, _ = ParseUpdateTimes(DefaultUpdateTimes)
	}
	return &Scheduler{
		dataStore:   dataStore,
		parser:      parser,
		validator:   validator,
		scheduler:   gocron.NewScheduler(time.Local),
		updateTimes: updateTimes,
		stop:        make(chan struct{}),
	}
}

// Start performs the initial load, schedules refreshes and starts the
// staleness monitor. A failed initial load is returned.
func (s *Scheduler) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(formatAt(s.updateTimes)).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			logging.Error("Failed to update data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule updates", "error", err)
		return fmt.Errorf("failed to schedule updates: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Refresh scheduled", "times", formatAt(s.updateTimes))

	go s.monitor()

	return nil
}

// Stop stops scheduled refreshes and the monitor
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.stopOnce.Do(func() { close(s.stop) })
}

// Refresh fetches fresh names and swaps them into the store. A refresh
// already in progress makes this a no-op. On error the store keeps its
// previous data.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting place names update")
	start := time.Now()

	names, err := s.parser.ParsePlaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to parse place names: %w", err)
	}

	if err := s.validator.ValidateNames(names); err != nil {
		return fmt.Errorf("refusing refreshed data: %w", err)
	}

	report := s.validator.ReportDataQuality(names)
	logReport(report)

	s.dataStore.UpdateData(names, report)

	metrics.LastRefreshTimestamp.SetToCurrentTime()
	metrics.NamesTotal.WithLabelValues(string(entities.KindTown)).Set(float64(len(names.Towns)))
	metrics.NamesTotal.WithLabelValues(string(entities.KindCounty)).Set(float64(len(names.Counties)))

	logging.Info("Place names update completed",
		"duration", time.Since(start).String(),
		"towns", len(names.Towns),
		"counties", len(names.Counties))

	return nil
}

func logReport(report *interfaces.DataQualityReport) {
	if len(report.DuplicateTowns) > 0 {
		logging.Warn("Duplicate towns detected", "total", len(report.DuplicateTowns), "towns", report.DuplicateTowns)
	}
	if len(report.DuplicateCounties) > 0 {
		logging.Warn("Duplicate counties detected", "total", len(report.DuplicateCounties), "counties", report.DuplicateCounties)
	}
	if report.BlankTowns > 0 || report.BlankCounties > 0 {
		logging.Warn("Blank names detected", "towns", report.BlankTowns, "counties", report.BlankCounties)
	}
	if len(report.OverlappingNames) > 0 {
		logging.Warn("Names listed as both town and county", "names", report.OverlappingNames)
	}
}

// monitor warns when no refresh succeeded for staleAfter
func (s *Scheduler) monitor() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.isStale(time.Now()) {
				logging.Warn("Place names haven't been updated in over 25 hours",
					"last_update", s.dataStore.GetLastUpdated().Format(time.RFC3339))
			}
		}
	}
}

func (s *Scheduler) isStale(now time.Time) bool {
	return now.Sub(s.dataStore.GetLastUpdated()) > staleAfter
}
