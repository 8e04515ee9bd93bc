package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/xraph/batchwatch/record"
)

// Msgpack encodes records as MessagePack.
type Msgpack struct{}

func (Msgpack) Encode(r *record.Record) ([]byte, error) {
	return msgpack.Marshal(r)
}

func (Msgpack) Decode(data []byte) (*record.Record, error) {
	var r record.Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (Msgpack) Name() string { return NameMsgpack }
