package peripheral

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const (
	// PayloadSize is the fixed wire size of the characteristic value
	PayloadSize = 4

	// MaxValue is the exclusive upper bound of values carried in a Payload
	MaxValue = 100
)

// Payload is a little-endian signed 32-bit value as sent on the wire
type Payload [PayloadSize]byte

// EncodePayload encodes v as 4 little-endian bytes
func EncodePayload(v int32) Payload {
	var p Payload
	binary.LittleEndian.PutUint32(p[:], uint32(v))
	return p
}

// DecodePayload decodes exactly PayloadSize little-endian bytes
func DecodePayload(b []byte) (int32, error) {
	if len(b) != PayloadSize {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPayload, len(b), PayloadSize)
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// Value returns the decoded integer
func (p Payload) Value() int32 {
	return int32(binary.LittleEndian.Uint32(p[:]))
}

// Bytes returns a fresh copy safe to hand to a transport
func (p Payload) Bytes() []byte {
	b := make([]byte, PayloadSize)
	copy(b, p[:])
	return b
}

func (p Payload) String() string {
	return fmt.Sprintf("%d (%s)", p.Value(), hex.EncodeToString(p[:]))
}
