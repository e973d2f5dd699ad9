package watcher

import (
	"context"
	"dexwatch/watcher/defs"
	"dexwatch/watcher/dexcom"
	"dexwatch/watcher/mg"
	"dexwatch/watcher/nightscout"
	"time"

	"go.uber.org/zap"
)

type Recorder interface {
	Append(outcome defs.PollOutcome) error
}

type Forwarder interface {
	Forward(ctx context.Context, r *defs.Reading) (nightscout.Result, error)
}

type Observer interface {
	Observe(outcome defs.PollOutcome)
}

// Poller runs one poll cycle at a time: fetch, decide, record, forward.
// Failures are isolated per stage; the only state carried between ticks is
// the DedupState passed in and returned.
type Poller struct {
	Source    dexcom.Source
	Recorder  Recorder
	Forwarder Forwarder
	Store     mg.GlucoseStore // optional
	Tracker   Observer        // optional

	Logger *zap.Logger
}

// Tick performs a single poll cycle and returns the state for the next one.
// The outcome row is committed before any forwarding is attempted, so a
// delivery failure can never affect the log or the dedup state.
func (p *Poller) Tick(ctx context.Context, state defs.DedupState) defs.DedupState {
	outcome := defs.PollOutcome{CheckTime: time.Now().UTC()}

	r, err := p.Source.Latest(ctx)
	switch {
	case err != nil:
		p.Logger.Warn("could not retrieve glucose reading", zap.Error(err))
	default:
		var accepted bool
		accepted, state = Decide(*r, state)
		if accepted {
			outcome.New = true
			outcome.Reading = r
			p.Logger.Info("new reading",
				zap.Float64("mgdl", r.MgDL),
				zap.String("trend", r.TrendDescription),
				zap.Time("time", r.Time),
			)
		} else {
			p.Logger.Info("no new reading",
				zap.Time("lastKnown", state.LastTime),
			)
		}
	}

	if err := p.Recorder.Append(outcome); err != nil {
		p.Logger.Error("unable to append poll record", zap.Error(err))
	}

	if outcome.New {
		p.propagate(ctx, outcome.Reading)
	}

	if p.Tracker != nil {
		p.Tracker.Observe(outcome)
	}

	return state
}

func (p *Poller) propagate(ctx context.Context, r *defs.Reading) {
	if p.Store != nil {
		if _, err := p.Store.WriteGlucose(ctx, r); err != nil {
			p.Logger.Error("unable to mirror reading to store", zap.Error(err))
		}
	}

	res, err := p.Forwarder.Forward(ctx, r)
	switch {
	case err != nil:
		p.Logger.Error("unable to forward reading", zap.Error(err))
	case res == nightscout.Skipped:
		p.Logger.Debug("forwarding skipped, remote sink not configured")
	default:
		p.Logger.Debug("forwarded reading to remote sink")
	}
}
