package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkhromov/patter/internal/buffer"
	"github.com/dkhromov/patter/internal/coalesce"
	"github.com/dkhromov/patter/internal/connector"
	"github.com/dkhromov/patter/internal/observability"
	"github.com/dkhromov/patter/internal/pacing"
)

// InboundMessage is one raw message as handed over by the chat transport.
type InboundMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options wires the engine's collaborators together.
type Options struct {
	Segmenter *pacing.Segmenter
	Coalescer *coalesce.Coalescer
	Store     buffer.Store
	Questions connector.QuestionSuggester
	Cadence   *pacing.QuestionCadence
	Metrics   *observability.Metrics
	MaxWait   time.Duration
}

// Service is the engine facade the transport talks to: it paces outgoing
// replies and coalesces inbound bursts, per user.
type Service struct {
	segmenter *pacing.Segmenter
	coalescer *coalesce.Coalescer
	store     buffer.Store
	questions connector.QuestionSuggester
	cadence   *pacing.QuestionCadence
	metrics   *observability.Metrics
	maxWait   time.Duration
}

func New(opts Options) *Service {
	if opts.MaxWait <= 0 {
		opts.MaxWait = 30 * time.Second
	}
	return &Service{
		segmenter: opts.Segmenter,
		coalescer: opts.Coalescer,
		store:     opts.Store,
		questions: opts.Questions,
		cadence:   opts.Cadence,
		metrics:   opts.Metrics,
		maxWait:   opts.MaxWait,
	}
}

// SegmentOutgoing paces one assistant reply. On cadence turns a follow-up
// question is appended first, unless the reply already asks one.
func (s *Service) SegmentOutgoing(ctx context.Context, text string, forceSplit bool) pacing.Result {
	if s.cadence.Due() && !pacing.HasQuestion(text) && s.questions != nil {
		if q, err := s.questions.SuggestQuestion(ctx, 1); err == nil && strings.TrimSpace(q) != "" {
			text = strings.TrimSpace(text) + " " + strings.TrimSpace(q)
		} else if err != nil {
			log.Printf("engine: question suggestion failed, reply goes out without one: %v", err)
		}
	}

	res := s.segmenter.Segment(text, forceSplit)

	if s.metrics != nil {
		s.metrics.PartsPerReply.Observe(float64(len(res.Parts)))
		if res.Truncated {
			s.metrics.TruncatedReplies.Inc()
		}
	}
	return res
}

// ProcessIncoming buffers the user's fresh messages, lazily evicts stale
// ones, and returns the coalesced utterance for downstream reasoning.
func (s *Service) ProcessIncoming(ctx context.Context, userID string, msgs []InboundMessage, now time.Time) (coalesce.Result, error) {
	for _, m := range msgs {
		if m.Role != "user" {
			continue
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		err := s.store.Append(ctx, buffer.Message{
			ID:         uuid.NewString(),
			UserID:     userID,
			Content:    content,
			ReceivedAt: now,
		})
		if err != nil {
			return coalesce.Result{}, fmt.Errorf("append inbound message: %w", err)
		}
	}

	live, err := s.store.Messages(ctx, userID, now, s.maxWait)
	if err != nil {
		return coalesce.Result{}, fmt.Errorf("read session buffer: %w", err)
	}

	fragments := make([]coalesce.Fragment, 0, len(live))
	for _, m := range live {
		fragments = append(fragments, coalesce.Fragment{Text: m.Content, At: m.ReceivedAt})
	}

	res := s.coalescer.Combine(ctx, fragments)
	if s.metrics != nil {
		s.metrics.CoalesceStrategies.WithLabelValues(res.Strategy).Inc()
	}
	return res, nil
}

// ClearSession drops the user's whole buffer.
func (s *Service) ClearSession(ctx context.Context, userID string) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("cleared").Inc()
	}
	return nil
}

// SessionInfo reports the user's current buffer size and last activity.
func (s *Service) SessionInfo(ctx context.Context, userID string) (buffer.Info, error) {
	return s.store.Stats(ctx, userID)
}

// StoreMode names the active buffer backend for health reporting.
func (s *Service) StoreMode() string {
	return s.store.Mode()
}

// StartJanitor periodically sweeps stale entries across all users so idle
// sessions do not pin memory. Eviction is otherwise lazy.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.store.Sweep(ctx, time.Now().UTC(), s.maxWait)
				if err != nil {
					log.Printf("engine: buffer sweep failed: %v", err)
					continue
				}
				if s.metrics != nil {
					s.metrics.BufferSweeps.Inc()
					s.metrics.SweptMessages.Add(float64(removed))
				}
			}
		}
	}()
}
