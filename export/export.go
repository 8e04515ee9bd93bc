// Package export renders job records as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/stats"
)

// Sheet names.
const (
	JobsSheet    = "Jobs"
	SummarySheet = "Summary"
)

// Headers are the column titles of the jobs sheet, in order.
var Headers = []string{
	"Job ID",
	"Job Name",
	"Status",
	"Task Type",
	"Queue",
	"Definition",
	"Version",
	"Region",
	"Account",
	"Timestamp",
	"Task ID",
	"Media ID",
	"Workspace UID",
	"Assembly ID",
	"Status Reason",
}

// reasonWidth caps the status reason column, which can hold stack traces.
const reasonWidth = 500

// Exporter produces XLSX bytes for record sets.
type Exporter struct {
	logger *slog.Logger
}

// New creates an Exporter. A nil logger selects slog.Default.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// XLSX returns a workbook with one row per record on the jobs sheet and the
// aggregate counts on the summary sheet.
func (e *Exporter) XLSX(records []*record.Record) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName(f.GetSheetName(0), JobsSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(JobsSheet, cell, h)
	}

	for i, r := range records {
		row := i + 2
		name, version := record.ParseDefinition(r.JobDefinition)
		values := []any{
			r.JobID,
			r.JobName,
			string(r.Status),
			r.TaskType(),
			r.QueueName(),
			name,
			version,
			r.Region,
			r.Account,
			r.Timestamp,
			r.TaskID,
			r.MediaID,
			r.WorkspaceUID,
			r.AssemblyID,
			truncate(r.StatusReason, reasonWidth),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(JobsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(JobsSheet, "A", "A", 40) // job id
	_ = f.SetColWidth(JobsSheet, "B", "B", 48) // job name
	_ = f.SetColWidth(JobsSheet, "C", "D", 18)
	_ = f.SetColWidth(JobsSheet, "E", "F", 32)
	_ = f.SetColWidth(JobsSheet, "J", "N", 26)
	_ = f.SetColWidth(JobsSheet, "O", "O", 60) // reason
	if len(records) > 0 {
		if err := f.AutoFilter(JobsSheet, fmt.Sprintf("A1:O%d", len(records)+1), nil); err != nil {
			return nil, fmt.Errorf("export: autofilter: %w", err)
		}
	}

	if err := writeSummary(f, stats.Compute(records)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: xlsx write: %w", err)
	}

	e.logger.Info("export xlsx",
		slog.Int("rows", len(records)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, s stats.Statistics) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("export: summary sheet: %w", err)
	}
	rows := [][]any{
		{"Total", s.Total},
		{"Succeeded", s.Succeeded},
		{"Failed", s.Failed},
		{"Running", s.Running},
		{"Success Rate", s.SuccessRate},
	}
	for i, r := range rows {
		_ = f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &r)
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 16)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
