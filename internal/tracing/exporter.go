package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// FileExporter writes spans to a file as JSON lines. Each span becomes
// one JSON object per line for easy parsing with jq or similar tools.
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// SpanRecord is the JSON shape of an exported span.
type SpanRecord struct {
	TraceID    string            `json:"trace_id"`
	SpanID     string            `json:"span_id"`
	ParentID   string            `json:"parent_id,omitempty"`
	Name       string            `json:"name"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time"`
	DurationMs float64           `json:"duration_ms"`
	Status     string            `json:"status,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Events     []EventRecord     `json:"events,omitempty"`
}

// EventRecord is the JSON shape of a span event.
type EventRecord struct {
	Name       string            `json:"name"`
	Time       time.Time         `json:"time"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewFileExporter creates a file exporter writing to the given path.
// Parent directories are created if needed.
func NewFileExporter(path string) (*FileExporter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	return &FileExporter{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// ExportSpans writes the spans to the file as JSON lines.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, span := range spans {
		record := SpanRecord{
			TraceID:    span.SpanContext().TraceID().String(),
			SpanID:     span.SpanContext().SpanID().String(),
			Name:       span.Name(),
			StartTime:  span.StartTime(),
			EndTime:    span.EndTime(),
			DurationMs: float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000.0,
		}

		if span.Parent().IsValid() {
			record.ParentID = span.Parent().SpanID().String()
		}

		if span.Status().Code.String() != "Unset" {
			record.Status = span.Status().Code.String()
		}

		if attrs := span.Attributes(); len(attrs) > 0 {
			record.Attributes = make(map[string]string, len(attrs))
			for _, attr := range attrs {
				record.Attributes[string(attr.Key)] = attr.Value.Emit()
			}
		}

		for _, ev := range span.Events() {
			eventRecord := EventRecord{
				Name: ev.Name,
				Time: ev.Time,
			}
			if len(ev.Attributes) > 0 {
				eventRecord.Attributes = make(map[string]string, len(ev.Attributes))
				for _, attr := range ev.Attributes {
					eventRecord.Attributes[string(attr.Key)] = attr.Value.Emit()
				}
			}
			record.Events = append(record.Events, eventRecord)
		}

		if err := e.enc.Encode(record); err != nil {
			return fmt.Errorf("encode span: %w", err)
		}
	}

	return nil
}

// Shutdown closes the underlying file.
func (e *FileExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file.Close()
}
