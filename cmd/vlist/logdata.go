package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

type level uint8

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func (l level) String() string {
	return [...]string{"DBG", "INF", "WRN", "ERR"}[l]
}

// entry is one log record. Errors carry a stack, which makes their height
// vary from one to several rows.
type entry struct {
	ID      int
	At      time.Time
	Level   level
	Service string
	Message string
	Stack   []string
}

// text is what the filter matches against.
func (e entry) text() string {
	return e.Level.String() + " " + e.Service + " " + e.Message
}

var (
	services = []string{"api", "auth", "billing", "gateway", "scheduler", "search", "worker"}
	messages = []string{
		"request completed",
		"cache miss for key %s",
		"retrying upstream call to %s",
		"connection reset by peer",
		"slow query on %s",
		"token refreshed for %s",
		"job enqueued on %s",
		"deadline exceeded talking to %s",
	}
	frames = []string{
		"main.(*Server).handle",
		"net/http.(*conn).serve",
		"db.(*Pool).Acquire",
		"queue.(*Worker).run",
		"auth.Verify",
		"billing.(*Ledger).Post",
	}
)

// generateLog builds n deterministic entries from seed.
func generateLog(n int, seed uint64) []entry {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	out := make([]entry, n)
	for i := range out {
		lvl := levelInfo
		switch p := r.IntN(100); {
		case p < 15:
			lvl = levelDebug
		case p < 85:
			lvl = levelInfo
		case p < 95:
			lvl = levelWarn
		default:
			lvl = levelError
		}
		svc := services[r.IntN(len(services))]
		msg := messages[r.IntN(len(messages))]
		if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, services[r.IntN(len(services))])
		}
		e := entry{
			ID:      i,
			At:      start.Add(time.Duration(i) * 37 * time.Millisecond),
			Level:   lvl,
			Service: svc,
			Message: msg,
		}
		if lvl == levelError {
			depth := 1 + r.IntN(5)
			for range depth {
				e.Stack = append(e.Stack, frames[r.IntN(len(frames))])
			}
		}
		out[i] = e
	}
	return out
}
