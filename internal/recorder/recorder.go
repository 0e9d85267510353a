package recorder

import "goldtracker/internal/model"

// RunRecord holds the outcome of one analysis run.
type RunRecord struct {
	Price      float64
	SMA10      float64
	SMA50      float64
	RSI14      float64
	Signal     string
	ReportPath string
	ResultLen  int
	Error      string
	DurationMS int64
}

// Recorder persists analysis history for later inspection.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordPrice(pt *model.PricePoint) error
	Close() error
}
