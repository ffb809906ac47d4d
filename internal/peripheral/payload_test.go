package peripheral_test

import (
	"math"
	"testing"

	"github.com/srg/blimp/internal/peripheral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePayload(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		want  []byte
	}{
		{name: "zero", value: 0, want: []byte{0x00, 0x00, 0x00, 0x00}},
		{name: "small value is low byte first", value: 42, want: []byte{0x2a, 0x00, 0x00, 0x00}},
		{name: "upper bound of domain", value: 99, want: []byte{0x63, 0x00, 0x00, 0x00}},
		{name: "multi-byte value", value: 0x01020304, want: []byte{0x04, 0x03, 0x02, 0x01}},
		{name: "negative uses two's complement", value: -1, want: []byte{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := peripheral.EncodePayload(tt.value)
			assert.Equal(t, tt.want, p.Bytes(), "encoding MUST be 4-byte little-endian")
			assert.Len(t, p.Bytes(), peripheral.PayloadSize, "payload MUST be fixed width")
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	// GOAL: Verify decode(encode(v)) == v for the whole value domain and the int32 extremes
	//
	// TEST SCENARIO: Encode every value in [0, 100) plus extremes → decode → original value returned

	values := []int32{math.MinInt32, -1, math.MaxInt32}
	for v := int32(0); v < peripheral.MaxValue; v++ {
		values = append(values, v)
	}

	for _, v := range values {
		p := peripheral.EncodePayload(v)

		decoded, err := peripheral.DecodePayload(p.Bytes())
		require.NoError(t, err, "decoding a 4-byte payload MUST succeed")
		assert.Equal(t, v, decoded, "round trip MUST return the original value")
		assert.Equal(t, v, p.Value(), "Value() MUST agree with DecodePayload")
	}
}

func TestDecodePayloadRejectsWrongLength(t *testing.T) {
	for _, b := range [][]byte{nil, {}, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		_, err := peripheral.DecodePayload(b)
		assert.ErrorIs(t, err, peripheral.ErrInvalidPayload, "length %d MUST be rejected", len(b))
	}
}

func TestPayloadBytesIsACopy(t *testing.T) {
	p := peripheral.EncodePayload(7)
	b := p.Bytes()
	b[0] = 0xff

	assert.Equal(t, int32(7), p.Value(), "mutating Bytes() MUST NOT change the payload")
	assert.Equal(t, "7 (07000000)", p.String())
}
