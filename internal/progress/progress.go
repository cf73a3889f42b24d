// Package progress carries the ingestion progress side-channel. Updates have
// no effect on control flow; sinks must tolerate repeated percentages.
package progress

import "log"

// Update is a single progress report from extraction or ingestion.
// Progress is 0-100 and non-decreasing within one file's pipeline, though
// consecutive updates may share a percentage.
type Update struct {
	FileName     string `json:"file_name"`
	Stage        string `json:"stage"`
	Progress     int    `json:"progress"`
	Message      string `json:"message"`
	IsProcessing bool   `json:"is_processing"`
}

// Sink receives progress updates. Implementations must not block ingestion.
type Sink interface {
	Report(u Update)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(u Update)

func (f SinkFunc) Report(u Update) { f(u) }

// NopSink discards all updates.
var NopSink Sink = SinkFunc(func(Update) {})

// LogSink writes updates to the process log. Used when no progress queue is
// configured.
var LogSink Sink = SinkFunc(func(u Update) {
	log.Printf("ingest %s: %d%% %s", u.FileName, u.Progress, u.Message)
})
