package connector

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/dkhromov/patter/internal/coalesce"
)

// Static is the offline implementation: it answers from the configured rule
// tables and never fails. Tests and no-LLM deployments run on it.
type Static struct {
	words      coalesce.WordLists
	connectors coalesce.Connectors
}

func NewStatic(words coalesce.WordLists, connectors coalesce.Connectors) *Static {
	return &Static{words: words, connectors: connectors}
}

func (s *Static) SuggestConnector(_ context.Context, _, current string) (string, error) {
	return coalesce.TableConnector(s.words, s.connectors, current, false), nil
}

// Stage-keyed fallback questions. Stage 1 is first contact, stage 2 early
// acquaintance, stage 3 an established conversation.
var stageQuestions = map[int][]string{
	1: {
		"Как прошел день?",
		"Что привело тебя сюда сегодня?",
		"Расскажи немного о себе?",
	},
	2: {
		"Что тебе нравится делать в свободное время?",
		"Есть ли что-то интересное, чем хочешь поделиться?",
		"Что планируешь на выходные?",
	},
	3: {
		"Что изменилось в твоей жизни за последнее время?",
		"Как дела с тем, о чем мы говорили раньше?",
		"О чем ты мечтаешь?",
	},
}

// StaticQuestions picks from a fixed per-stage list.
type StaticQuestions struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewStaticQuestions(seed int64) *StaticQuestions {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &StaticQuestions{rng: rand.New(rand.NewSource(seed))}
}

func (q *StaticQuestions) SuggestQuestion(_ context.Context, stage int) (string, error) {
	list, ok := stageQuestions[stage]
	if !ok || len(list) == 0 {
		list = stageQuestions[1]
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return list[q.rng.Intn(len(list))], nil
}
