package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xraph/batchwatch/extract"
	"github.com/xraph/batchwatch/record"
)

// ErrInvalidEvent is returned for payloads that are not a JSON object or
// carry no job ID. Nothing is written for them.
var ErrInvalidEvent = errors.New("ingest: invalid event")

// Parse decodes payload into a record and the extraction view of the
// event. now is used as the timestamp when the event carries none.
func Parse(payload []byte, now time.Time) (*record.Record, *extract.Event, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var top map[string]any
	if err := dec.Decode(&top); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidEvent)
	}
	if top == nil {
		return nil, nil, fmt.Errorf("%w: not a JSON object", ErrInvalidEvent)
	}

	envelope := top
	detail, ok := top["detail"].(map[string]any)
	if !ok {
		detail = top
	}

	jobID := str(detail["jobId"])
	if jobID == "" {
		return nil, nil, fmt.Errorf("%w: missing jobId", ErrInvalidEvent)
	}

	ts := first(str(envelope["time"]), str(detail["timestamp"]))
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339)
	}

	r := &record.Record{
		JobID:         jobID,
		Timestamp:     ts,
		JobName:       str(detail["jobName"]),
		Status:        record.Status(str(detail["status"])),
		JobQueue:      str(detail["jobQueue"]),
		JobDefinition: str(detail["jobDefinition"]),
		Region:        first(str(envelope["region"]), str(detail["region"])),
		Account:       first(str(envelope["account"]), str(detail["account"])),
		StatusReason:  str(detail["statusReason"]),
		FullEvent:     string(payload),
	}

	ev := &extract.Event{
		JobName:    r.JobName,
		Fields:     scalars(detail, envelope),
		Parameters: scalars(asMap(detail["parameters"])),
		Tags:       scalars(asMap(detail["tags"])),
	}
	if container := asMap(detail["container"]); container != nil {
		if args, ok := container["command"].([]any); ok {
			ev.Command = make([]string, 0, len(args))
			for _, a := range args {
				ev.Command = append(ev.Command, str(a))
			}
		}
	}
	return r, ev, nil
}

// str renders JSON scalars as strings. Objects, arrays and null yield "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// scalars flattens the scalar entries of maps into one string map. Earlier
// maps win on key collisions.
func scalars(maps ...map[string]any) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			if _, seen := out[k]; seen {
				continue
			}
			if s := str(v); s != "" {
				out[k] = s
			}
		}
	}
	return out
}
