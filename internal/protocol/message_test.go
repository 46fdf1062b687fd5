package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	for name, frame := range map[string]string{
		"not json":       "{oops",
		"empty":          "",
		"missing type":   `{"room":"default"}`,
		"wrong toplevel": `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(frame))
			assert.Error(t, err)
		})
	}
}

func TestDecodeCursorKeepsZeroCoordinates(t *testing.T) {
	m, err := Decode([]byte(`{"type":"cursor","userId":"u1","x":0,"y":0,"color":"#ef4444"}`))
	require.NoError(t, err)
	require.NotNil(t, m.X)
	require.NotNil(t, m.Y)
	assert.Equal(t, 0.0, *m.X)
	assert.Equal(t, 0.0, *m.Y)
}

func TestEncodeSaveAckKeepsFalseOK(t *testing.T) {
	data, err := Encode(Message{Type: TypeSaveAck, Room: "r", OK: Bool(false), Error: "disk full"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"save-ack","room":"r","ok":false,"error":"disk full"}`, string(data))
}

func TestEncodeOmitsUnusedFields(t *testing.T) {
	data, err := Encode(Message{Type: TypeClear})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"clear"}`, string(data))
}
