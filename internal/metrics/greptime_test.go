package metrics

import (
	"context"
	"io"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"mapfbench/internal/dispatch"
	"mapfbench/internal/job"
	"mapfbench/internal/logging"
)

type mockIngestClient struct {
	table *table.Table
}

func (m *mockIngestClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestJobFinishedWritesRow(t *testing.T) {
	m := &mockIngestClient{}
	w := &GreptimeWriter{
		client: m,
		table:  "job_metrics",
		log:    logging.NewWithWriter(io.Discard, false),
	}

	w.BatchStarted(3)
	j := job.Job{Name: "maze-512 10-agents-0.1-obst"}
	w.JobFinished(j, dispatch.Outcome{
		Completed: true,
		Duration:  1500 * time.Millisecond,
	})

	if m.table == nil {
		t.Fatal("expected a metrics row to be written")
	}
	rows := m.table.GetRows().Rows
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	values := rows[0].Values
	if len(values) != 6 {
		t.Fatalf("expected 6 values per row, got %d", len(values))
	}
	if got := values[0].GetStringValue(); got != w.batchID {
		t.Errorf("batch_id = %q, want %q", got, w.batchID)
	}
	if got := values[1].GetStringValue(); got != j.Name {
		t.Errorf("job = %q, want %q", got, j.Name)
	}
	if got := values[2].GetF64Value(); got != 1 {
		t.Errorf("completed = %v, want 1", got)
	}
	if got := values[3].GetF64Value(); got != 0 {
		t.Errorf("timed_out = %v, want 0", got)
	}
	if got := values[4].GetF64Value(); got != 1500 {
		t.Errorf("duration_ms = %v, want 1500", got)
	}
}

func TestBatchStartedRotatesBatchID(t *testing.T) {
	w := &GreptimeWriter{log: logging.NewWithWriter(io.Discard, false)}

	w.BatchStarted(1)
	first := w.batchID
	if first == "" {
		t.Fatal("expected a batch ID after BatchStarted")
	}
	w.BatchStarted(1)
	if w.batchID == first {
		t.Error("expected a fresh batch ID per batch")
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		endpoint string
		host     string
		port     int
		wantErr  bool
	}{
		{endpoint: "localhost:4001", host: "localhost", port: 4001},
		{endpoint: "db.internal:4100", host: "db.internal", port: 4100},
		{endpoint: "localhost", host: "localhost", port: defaultPort},
		{endpoint: "localhost:abc", wantErr: true},
	}
	for _, tc := range cases {
		host, port, err := splitEndpoint(tc.endpoint)
		if tc.wantErr {
			if err == nil {
				t.Errorf("splitEndpoint(%q): expected error", tc.endpoint)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitEndpoint(%q): %v", tc.endpoint, err)
			continue
		}
		if host != tc.host || port != tc.port {
			t.Errorf("splitEndpoint(%q) = (%q, %d), want (%q, %d)",
				tc.endpoint, host, port, tc.host, tc.port)
		}
	}
}
