// Package observability defines the optional debug-log observer hook
// the core operations call synchronously on completion. The core itself
// never logs; an observer is an explicit collaborator a caller may
// attach, grounded on go_hsm's internal/logging structured-event style
// (LogRequest/LogResponse), generalized from that package's two
// hardcoded server events into an arbitrary named-event contract an
// observer can be notified of from any operation.
package observability

import (
	"github.com/rs/zerolog/log"
)

// Event is a single structured observation emitted by a core operation
// on completion: a name (e.g. "kcv_computed") and a flat set of fields
// describing the call. Field values must be safe to log (no secret
// material beyond what the operation's own contract already treats as
// non-secret, such as a KCV or a KSN).
type Event struct {
	Name   string
	Fields map[string]string
}

// Observer receives Events synchronously from within the operation that
// produced them. Observe MUST NOT panic; a panicking Observer is
// recovered by Notify and silently dropped rather than propagated into
// the calling operation, matching the spec's "observer MUST NOT throw"
// contract defensively rather than trusting every implementation to
// honor it. Observe MUST be safe for concurrent use, since the core
// itself makes no ordering guarantee between callers.
type Observer interface {
	Observe(Event)
}

// Func adapts a plain function to the Observer interface.
type Func func(Event)

// Observe calls f.
func (f Func) Observe(e Event) { f(e) }

// Notify calls Observe on every observer in obs, recovering and
// discarding any panic so a misbehaving observer cannot affect the
// calling operation's result.
func Notify(obs []Observer, event Event) {
	for _, o := range obs {
		if o == nil {
			continue
		}
		notifyOne(o, event)
	}
}

func notifyOne(o Observer, event Event) {
	defer func() {
		_ = recover()
	}()
	o.Observe(event)
}

// Zerolog returns an Observer that logs each Event as a structured
// zerolog info record, one string field per Fields entry.
func Zerolog() Observer {
	return Func(func(e Event) {
		entry := log.Info().Str("event", e.Name)
		for k, v := range e.Fields {
			entry = entry.Str(k, v)
		}
		entry.Msg("hsmkit operation")
	})
}
