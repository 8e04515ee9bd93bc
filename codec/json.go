package codec

import (
	"encoding/json"

	"github.com/xraph/batchwatch/record"
)

// JSON encodes records using their wire field names.
type JSON struct{}

func (JSON) Encode(r *record.Record) ([]byte, error) {
	return json.Marshal(r)
}

func (JSON) Decode(data []byte) (*record.Record, error) {
	var r record.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (JSON) Name() string { return NameJSON }
