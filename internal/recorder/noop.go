package recorder

import "goldtracker/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error          { return nil }
func (n *NoopRecorder) RecordPrice(_ *model.PricePoint) error { return nil }
func (n *NoopRecorder) Close() error                          { return nil }
