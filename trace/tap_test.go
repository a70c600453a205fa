package trace_test

import (
	"testing"

	"github.com/c360/machinemodel/trace"
)

type recordingTap struct {
	points []string
}

func (r *recordingTap) Emit(point string, fields map[string]any) {
	r.points = append(r.points, point)
}

func TestNoopDiscardsEvents(t *testing.T) {
	var tap trace.Tap = trace.Noop{}
	tap.Emit(trace.PointRead, map[string]any{"x": 1}) // must not panic
}

func TestTapReceivesNamedPoints(t *testing.T) {
	rec := &recordingTap{}
	var tap trace.Tap = rec
	tap.Emit(trace.PointWrite, map[string]any{"node_id": "abc"})
	tap.Emit(trace.PointStep, nil)

	if len(rec.points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(rec.points))
	}
	if rec.points[0] != trace.PointWrite || rec.points[1] != trace.PointStep {
		t.Fatalf("points = %v, want [%s %s]", rec.points, trace.PointWrite, trace.PointStep)
	}
}
