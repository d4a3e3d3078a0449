package recorder

import "github.com/breakoutsentinel/sentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error                   { return nil }
func (n *NoopRecorder) RecordSignals(_ string, _ []model.Signal) error { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }
