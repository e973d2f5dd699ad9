package watcher

import (
	"context"
	"dexwatch/watcher/csvlog"
	"dexwatch/watcher/defs"
	"dexwatch/watcher/dexcom"
	"dexwatch/watcher/mg"
	"dexwatch/watcher/nightscout"
	"dexwatch/watcher/web"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Server wires the poll loop together and drives it on a fixed interval.
type Server struct {
	Dexcom   *dexcom.Client
	Poller   *Poller
	Web      *web.HttpServer
	HTTPAddr string
	Interval time.Duration
	LogPath  string
	Logger   *zap.Logger
}

func New(config defs.Config) (*Server, error) {
	dex, err := dexcom.New(config.Dexcom, config.Logger)
	if err != nil {
		return nil, err
	}

	logPath := config.LogPath
	if logPath == "" {
		logPath = defs.DefaultLogPath
	}

	interval := defs.DefaultPollInterval
	if config.IntervalSeconds > 0 {
		interval = time.Duration(config.IntervalSeconds) * time.Second
	}

	poller := &Poller{
		Source:    dex,
		Recorder:  &csvlog.Recorder{Path: logPath},
		Forwarder: nightscout.New(config.Nightscout, config.Logger),
		Logger:    config.Logger,
	}

	if config.Mongo.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
		defer cancel()

		ms, err := mg.New(ctx, config.Mongo, defs.DefaultDB, config.Logger)
		if err != nil {
			return nil, err
		}
		poller.Store = ms
	}

	srv := &Server{
		Dexcom:   dex,
		Poller:   poller,
		HTTPAddr: config.HTTPAddr,
		Interval: interval,
		LogPath:  logPath,
		Logger:   config.Logger,
	}

	if config.HTTPAddr != "" {
		tracker := web.NewTracker()
		poller.Tracker = tracker
		srv.Web = web.New(tracker, config.Glucose)
	}

	config.Logger.Debug("finished server setup", zap.Any("config", config))

	return srv, nil
}

// Run establishes connectivity to the source, then polls forever. Steady
// state failures never stop the loop; only this initial step is fatal.
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()

	if _, err := s.Dexcom.CreateSession(ctx); err != nil {
		return fmt.Errorf("unable to establish dexcom session: %w", err)
	}
	s.Logger.Info("connected to dexcom share")

	if s.Web != nil {
		go func() {
			if err := s.Web.Serve(s.HTTPAddr); err != nil {
				s.Logger.Error("http server stopped", zap.Error(err))
			}
		}()
	}

	s.Logger.Info("polling",
		zap.Duration("interval", s.Interval),
		zap.String("log", s.LogPath),
	)

	state := defs.DedupState{}
	// Fixed cadence: ticks are spaced by the interval from loop start, not
	// by a full sleep after each pass. At minute-scale intervals the
	// difference is well under the readings' five minute publish rate.
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for ; true; <-ticker.C {
		state = s.Poller.Tick(context.Background(), state)
	}
	return nil
}
