package postgres

import "github.com/xraph/batchwatch/record"

// recordColumns lists the table columns in scan order.
const recordColumns = `job_id, timestamp, job_name, status, job_queue, job_definition,
	region, account, status_reason, full_event,
	media_id, task_id, workspace_uid, assembly_id`

// recordRow mirrors one table row. Derived identifiers are nullable; an
// absent identifier is stored as NULL.
type recordRow struct {
	JobID         string
	Timestamp     string
	JobName       string
	Status        string
	JobQueue      string
	JobDefinition string
	Region        string
	Account       string
	StatusReason  string
	FullEvent     string
	MediaID       *string
	TaskID        *string
	WorkspaceUID  *string
	AssemblyID    *string
}

// dest returns scan destinations in recordColumns order.
func (m *recordRow) dest() []any {
	return []any{
		&m.JobID, &m.Timestamp, &m.JobName, &m.Status, &m.JobQueue, &m.JobDefinition,
		&m.Region, &m.Account, &m.StatusReason, &m.FullEvent,
		&m.MediaID, &m.TaskID, &m.WorkspaceUID, &m.AssemblyID,
	}
}

// args returns insert arguments in recordColumns order.
func (m *recordRow) args() []any {
	return []any{
		m.JobID, m.Timestamp, m.JobName, m.Status, m.JobQueue, m.JobDefinition,
		m.Region, m.Account, m.StatusReason, m.FullEvent,
		m.MediaID, m.TaskID, m.WorkspaceUID, m.AssemblyID,
	}
}

func toRecordRow(r *record.Record) *recordRow {
	return &recordRow{
		JobID:         pgText(r.JobID),
		Timestamp:     pgText(r.Timestamp),
		JobName:       pgText(r.JobName),
		Status:        pgText(string(r.Status)),
		JobQueue:      pgText(r.JobQueue),
		JobDefinition: pgText(r.JobDefinition),
		Region:        pgText(r.Region),
		Account:       pgText(r.Account),
		StatusReason:  pgText(r.StatusReason),
		FullEvent:     pgText(r.FullEvent),
		MediaID:       nullable(pgText(r.MediaID)),
		TaskID:        nullable(pgText(r.TaskID)),
		WorkspaceUID:  nullable(pgText(r.WorkspaceUID)),
		AssemblyID:    nullable(pgText(r.AssemblyID)),
	}
}

func fromRecordRow(m *recordRow) *record.Record {
	return &record.Record{
		JobID:         m.JobID,
		Timestamp:     m.Timestamp,
		JobName:       m.JobName,
		Status:        record.Status(m.Status),
		JobQueue:      m.JobQueue,
		JobDefinition: m.JobDefinition,
		Region:        m.Region,
		Account:       m.Account,
		StatusReason:  m.StatusReason,
		FullEvent:     m.FullEvent,
		MediaID:       deref(m.MediaID),
		TaskID:        deref(m.TaskID),
		WorkspaceUID:  deref(m.WorkspaceUID),
		AssemblyID:    deref(m.AssemblyID),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
