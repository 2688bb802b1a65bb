package codec

import (
	"encoding/json"
	"io"
)

// JSON is a default Codec backed by encoding/json, suitable for tests and
// simple deployments. Message and every value it contains must round-trip
// through json.Marshal/Unmarshal.
type JSON[Message any] struct{}

// Encode writes the JSON encoding of v to w.
func (JSON[Message]) Encode(w io.Writer, v Message) error {
	return json.NewEncoder(w).Encode(v)
}

// Decode parses data as the JSON encoding of a Message.
func (JSON[Message]) Decode(data []byte) (Message, error) {
	var v Message
	err := json.Unmarshal(data, &v)
	return v, err
}
