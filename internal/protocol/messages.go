package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MessageType identifies websocket payload variants on the delivery stream.
type MessageType string

const (
	TypeSegmentRequest MessageType = "segment_request"
	TypePart           MessageType = "part"
	TypeTurnEnd        MessageType = "turn_end"
	TypeErrorEvent     MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// SegmentRequest asks the server to segment one reply and stream its parts
// back with their scheduled delays applied.
type SegmentRequest struct {
	Type       MessageType `json:"type"`
	Text       string      `json:"text"`
	ForceSplit bool        `json:"force_split"`
}

// Part is one timed fragment of the segmented reply.
type Part struct {
	Type    MessageType `json:"type"`
	TurnID  string      `json:"turn_id"`
	Seq     int         `json:"seq"`
	Text    string      `json:"text"`
	DelayMs int         `json:"delay_ms"`
}

// TurnEnd closes one delivery turn.
type TurnEnd struct {
	Type        MessageType `json:"type"`
	TurnID      string      `json:"turn_id"`
	Parts       int         `json:"parts"`
	HasQuestion bool        `json:"has_question"`
	Truncated   bool        `json:"truncated"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

// ParseClientMessage decodes one inbound client frame.
func ParseClientMessage(data []byte) (SegmentRequest, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return SegmentRequest{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type != TypeSegmentRequest {
		return SegmentRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}

	var req SegmentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return SegmentRequest{}, fmt.Errorf("decode segment_request: %w", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return SegmentRequest{}, errors.New("segment_request requires text")
	}
	return req, nil
}
