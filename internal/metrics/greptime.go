// Package metrics exports per-job experiment metrics to GreptimeDB via
// the ingester client. Export is best-effort: a sink failure is logged
// and never fails the batch.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
	"github.com/google/uuid"

	"mapfbench/internal/dispatch"
	"mapfbench/internal/job"
)

// defaultPort is GreptimeDB's gRPC ingest port, used when the endpoint
// carries no port of its own.
const defaultPort = 4001

// ingestClient is the slice of the ingester API the writer needs;
// narrowed so tests can capture written tables.
type ingestClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter is a dispatch.Observer that records one row per finished
// job.
type GreptimeWriter struct {
	client  ingestClient
	table   string
	batchID string
	log     *slog.Logger
}

// NewGreptimeWriter connects to a GreptimeDB endpoint ("host" or
// "host:port"). Rows land in the job_metrics table of the given database.
func NewGreptimeWriter(endpoint, database string, log *slog.Logger) (*GreptimeWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	client, err := greptime.NewClient(&greptime.Config{
		Host:     host,
		Port:     port,
		Database: database,
	})
	if err != nil {
		return nil, err
	}
	return &GreptimeWriter{client: client, table: "job_metrics", log: log}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return "", 0, fmt.Errorf("invalid metrics endpoint port %q", portStr)
	}
	return host, port, nil
}

// BatchStarted tags all subsequent rows with a fresh batch ID.
func (w *GreptimeWriter) BatchStarted(total int) {
	w.batchID = uuid.New().String()
}

// JobStarted implements dispatch.Observer.
func (w *GreptimeWriter) JobStarted(j job.Job) {}

// JobFinished writes one metrics row for the finished job.
func (w *GreptimeWriter) JobFinished(j job.Job, o dispatch.Outcome) {
	tbl, err := w.metricsRow(j, o)
	if err == nil {
		_, err = w.client.Write(context.Background(), tbl)
	}
	if err != nil {
		w.log.Warn("metrics export failed", "job", j.Name, "error", err)
	}
}

func (w *GreptimeWriter) metricsRow(j job.Job, o dispatch.Outcome) (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("batch_id", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("job", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("completed", types.FLOAT64); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("timed_out", types.FLOAT64); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("duration_ms", types.FLOAT64); err != nil {
		return nil, err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	err = tbl.AddRow(w.batchID, j.Name,
		boolField(o.Completed), boolField(o.TimedOut),
		float64(o.Duration.Milliseconds()), time.Now())
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

// BatchFinished implements dispatch.Observer.
func (w *GreptimeWriter) BatchFinished() {}

func boolField(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
