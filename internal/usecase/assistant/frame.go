package assistant

import (
	"encoding/json"
	"fmt"
)

// FrameType tags a stream frame.
type FrameType string

const (
	// FrameMetadata carries the context payload preview.
	FrameMetadata FrameType = "metadata"
	// FrameText carries one incremental generator chunk.
	FrameText FrameType = "text"
)

// Frame is one discrete event in an assistant response stream: first a
// single metadata frame, then text frames until the stream closes.
type Frame struct {
	Type   FrameType
	Events []EventContext // metadata frames only
	Text   string         // text frames only
}

// MarshalJSON renders the wire shape for the frame's type. Metadata frames
// always carry an "events" array, even when empty.
func (f Frame) MarshalJSON() ([]byte, error) {
	switch f.Type {
	case FrameMetadata:
		events := f.Events
		if events == nil {
			events = []EventContext{}
		}
		return json.Marshal(struct {
			Type   FrameType      `json:"type"`
			Events []EventContext `json:"events"`
		}{f.Type, events})
	case FrameText:
		return json.Marshal(struct {
			Type FrameType `json:"type"`
			Text string    `json:"text"`
		}{f.Type, f.Text})
	default:
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
}
