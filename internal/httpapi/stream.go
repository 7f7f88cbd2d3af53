package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dkhromov/patter/internal/protocol"
)

// handleStream upgrades to a websocket and serves delivery turns: each
// segment_request is answered with the reply's parts, emitted only after
// their scheduled delays have elapsed, then a turn_end frame.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		req, err := protocol.ParseClientMessage(data)
		if err != nil {
			_ = writeJSON(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		res := s.eng.SegmentOutgoing(ctx, req.Text, req.ForceSplit)
		turnID := uuid.NewString()

		// Parts go out sequentially; one slow turn delays the next request
		// on purpose, matching how a human types one message at a time.
		for i, part := range res.Parts {
			delay := 0
			if i < len(res.DelaysMs) {
				delay = res.DelaysMs[i]
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(delay) * time.Millisecond):
			}
			err := writeJSON(conn, protocol.Part{
				Type:    protocol.TypePart,
				TurnID:  turnID,
				Seq:     i,
				Text:    part,
				DelayMs: delay,
			})
			if err != nil {
				return
			}
		}

		err = writeJSON(conn, protocol.TurnEnd{
			Type:        protocol.TypeTurnEnd,
			TurnID:      turnID,
			Parts:       len(res.Parts),
			HasQuestion: res.HasQuestion,
			Truncated:   res.Truncated,
		})
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(v)
}
