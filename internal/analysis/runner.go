package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"goldtracker/internal/agent"
	"goldtracker/internal/calculator"
	"goldtracker/internal/model"
	"goldtracker/internal/recorder"
	"goldtracker/internal/report"
	"goldtracker/internal/strategy"
)

// ErrAlreadyRunning is returned when a start request arrives while a
// run is still in flight.
var ErrAlreadyRunning = errors.New("analysis already running")

// Status is the shared record pollers observe. Result and Error are
// mutually exclusive and both empty while a run is in flight.
type Status struct {
	Running  bool   `json:"running"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HistorySource provides the closing prices the pipeline analyzes.
type HistorySource interface {
	FetchDailyCloses(ctx context.Context, days int) ([]float64, error)
}

// ContextGatherer provides best-effort fundamental context; it never
// fails, at worst returning generic framing text.
type ContextGatherer interface {
	GatherContext(ctx context.Context) string
}

// ReportSaver persists a finished recommendation.
type ReportSaver interface {
	Save(body string) (string, error)
}

// Runner owns the analysis status record and runs the multi-stage
// pipeline on a background goroutine, at most one run at a time.
type Runner struct {
	history  HistorySource
	narrator agent.Narrator
	news     ContextGatherer
	reports  ReportSaver
	recorder recorder.Recorder

	symbol      string
	historyDays int

	mu     sync.Mutex
	status Status
}

// NewRunner wires the pipeline collaborators. historyDays bounds the
// closing-price series fetched for indicator computation.
func NewRunner(history HistorySource, narrator agent.Narrator, news ContextGatherer, reports ReportSaver, rec recorder.Recorder, symbol string, historyDays int) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if historyDays <= 0 {
		historyDays = 180
	}
	return &Runner{
		history:     history,
		narrator:    narrator,
		news:        news,
		reports:     reports,
		recorder:    rec,
		symbol:      symbol,
		historyDays: historyDays,
	}
}

// Start accepts a new run unless one is already in flight. The
// check-and-set happens under one lock so near-simultaneous starts
// cannot both pass. Returns immediately; progress is observed via
// Status.
func (r *Runner) Start() error {
	r.mu.Lock()
	if r.status.Running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.status = Status{Running: true, Progress: 0, Message: "Starting analysis..."}
	r.mu.Unlock()

	go r.run()
	return nil
}

// Status returns a snapshot copy of the current status record.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) setProgress(progress int, message string) {
	r.mu.Lock()
	r.status.Progress = progress
	r.status.Message = message
	r.mu.Unlock()
	log.Printf("[INFO] analysis: %s (%d%%)", message, progress)
}

// fail finalizes the run in the Failed state. Every abnormal exit path
// funnels through here so the record can never be left running.
func (r *Runner) fail(err error) {
	log.Printf("[ERROR] analysis failed: %v", err)
	r.mu.Lock()
	r.status.Running = false
	r.status.Error = err.Error()
	r.status.Result = ""
	r.status.Message = fmt.Sprintf("Error: %v", err)
	r.mu.Unlock()

	if recErr := r.recorder.RecordRun(&recorder.RunRecord{Error: err.Error()}); recErr != nil {
		log.Printf("[WARN] record failed run: %v", recErr)
	}
}

func (r *Runner) run() {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(fmt.Errorf("unexpected fault: %v", rec))
		}
	}()

	ctx := context.Background()

	// Stage 1: market data.
	r.setProgress(10, "Fetching market data...")
	closes, err := r.history.FetchDailyCloses(ctx, r.historyDays)
	if err != nil {
		r.fail(fmt.Errorf("fetch market data: %w", err))
		return
	}

	// Stage 2: indicators and classification.
	r.setProgress(30, "Computing technical indicators...")
	snap, err := calculator.Snapshot(closes)
	if err != nil {
		r.fail(fmt.Errorf("compute indicators: %w", err))
		return
	}
	techFacts := r.technicalFacts(snap)

	techView, err := r.narrator.Narrate(ctx, agent.RoleTechnicalAnalyst, techFacts, nil)
	if err != nil {
		r.fail(fmt.Errorf("technical narration: %w", err))
		return
	}

	// Stage 3: fundamental context. Best-effort by contract.
	r.setProgress(60, "Gathering fundamental context...")
	fundFacts := r.news.GatherContext(ctx)

	fundView, err := r.narrator.Narrate(ctx, agent.RoleFundamentalEconomist, fundFacts, nil)
	if err != nil {
		r.fail(fmt.Errorf("fundamental narration: %w", err))
		return
	}

	// Stage 4: final synthesis, consuming both earlier outputs.
	r.setProgress(80, "Synthesizing recommendation...")
	facts := fmt.Sprintf("Current gold price: $%.2f", snap.CurrentPrice)
	finalView, err := r.narrator.Narrate(ctx, agent.RolePositionStrategist, facts, []string{techView, fundView})
	if err != nil {
		r.fail(fmt.Errorf("recommendation synthesis: %w", err))
		return
	}
	result := report.Clean(finalView)

	r.mu.Lock()
	r.status.Running = false
	r.status.Progress = 100
	r.status.Message = "Analysis complete!"
	r.status.Result = result
	r.status.Error = ""
	r.mu.Unlock()

	// Persistence is best-effort: the analysis already succeeded.
	reportPath := ""
	if path, err := r.reports.Save(result); err != nil {
		log.Printf("[WARN] save report: %v", err)
	} else {
		reportPath = path
		log.Printf("[INFO] report saved: %s", path)
	}

	rec := &recorder.RunRecord{
		Price:      snap.CurrentPrice,
		SMA10:      nanToZero(snap.SMA10),
		SMA50:      nanToZero(snap.SMA50),
		RSI14:      nanToZero(snap.RSI14),
		Signal:     string(r.classifyOrNeutral(snap)),
		ReportPath: reportPath,
		ResultLen:  len(result),
		DurationMS: time.Since(started).Milliseconds(),
	}
	if err := r.recorder.RecordRun(rec); err != nil {
		log.Printf("[WARN] record run: %v", err)
	}
}

// technicalFacts renders the indicator stage output for narration.
// Classification failing on short history is reported as an unknown
// signal inside the facts rather than failing the run.
func (r *Runner) technicalFacts(snap *model.IndicatorSnapshot) string {
	signal, err := strategy.Classify(snap)
	if err != nil {
		return fmt.Sprintf(
			"Gold Technical Analysis (%s)\n\nCurrent Price: $%.2f\n\nTechnical Signal: Neutral (insufficient price history for SMA/RSI classification)",
			r.symbol, snap.CurrentPrice)
	}
	return strategy.Summary(r.symbol, snap, signal)
}

func (r *Runner) classifyOrNeutral(snap *model.IndicatorSnapshot) model.Signal {
	signal, err := strategy.Classify(snap)
	if err != nil {
		return model.SignalNeutral
	}
	return signal
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
