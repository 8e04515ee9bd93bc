// Package codec serializes job records for key/value backends.
package codec

import (
	"fmt"
	"strings"

	"github.com/xraph/batchwatch/record"
)

// Codec defines the serialization contract for stored records.
type Codec interface {
	// Encode serializes a record to bytes.
	Encode(r *record.Record) ([]byte, error)

	// Decode deserializes bytes into a record.
	Decode(data []byte) (*record.Record, error)

	// Name returns the codec identifier ("json" or "msgpack").
	Name() string
}

// Codec name constants.
const (
	NameJSON    = "json"
	NameMsgpack = "msgpack"
)

// Lookup returns a codec by name. An empty name selects msgpack.
func Lookup(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case NameMsgpack, "":
		return Msgpack{}, nil
	case NameJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}
