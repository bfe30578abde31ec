package transport

import (
	gojson "github.com/goccy/go-json"
)

// frame is the wire envelope of the room realtime protocol. Server-pushed
// events carry only a type and payload; request frames additionally carry a
// request id that the server echoes back on the acknowledgment frame.
type frame struct {
	Type      string            `json:"type"`
	RequestId string            `json:"request_id,omitempty"`
	Payload   gojson.RawMessage `json:"payload,omitempty"`
}

func encodeFrame(eventType, requestId string, payload any) ([]byte, error) {
	var raw gojson.RawMessage
	if payload != nil {
		data, err := gojson.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	return gojson.Marshal(frame{
		Type:      eventType,
		RequestId: requestId,
		Payload:   raw,
	})
}

func decodeFrame(data []byte) (frame, error) {
	var f frame
	if err := gojson.Unmarshal(data, &f); err != nil {
		return frame{}, err
	}

	return f, nil
}
