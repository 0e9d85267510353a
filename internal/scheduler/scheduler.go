package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"goldtracker/internal/analysis"
	"goldtracker/internal/model"
	"goldtracker/internal/recorder"
)

// PriceReader is the cached price view the snapshot task reads.
type PriceReader interface {
	GetPrice(ctx context.Context) (model.PricePoint, error)
}

// Scheduler runs the periodic background tasks: price snapshot
// recording and optional scheduled analysis runs.
type Scheduler struct {
	Cron     *cron.Cron
	Price    PriceReader
	Runner   *analysis.Runner
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, price PriceReader, runner *analysis.Runner, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Price:    price,
		Runner:   runner,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the snapshot task and, when analysisCron is
// non-empty, the scheduled analysis task.
func (s *Scheduler) RegisterAll(snapshotCron, analysisCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	if analysisCron != "" {
		if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
			return fmt.Errorf("register analysis task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) snapshotTask() {
	pt, err := s.Price.GetPrice(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] snapshot price fetch: %v", err)
		return
	}
	if err := s.Recorder.RecordPrice(&pt); err != nil {
		log.Printf("[ERROR] record price snapshot: %v", err)
	}
}

func (s *Scheduler) analysisTask() {
	log.Println("[INFO] scheduled analysis trigger")
	if err := s.Runner.Start(); err != nil {
		if errors.Is(err, analysis.ErrAlreadyRunning) {
			log.Println("[INFO] scheduled analysis skipped: run already in flight")
			return
		}
		log.Printf("[ERROR] scheduled analysis start: %v", err)
	}
}
