// Package app wires the generator to its collaborators for the CLI and the
// HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/teamgen/api/teams"
	"github.com/kilianp07/teamgen/config"
	connfactory "github.com/kilianp07/teamgen/connectors/factory"
	"github.com/kilianp07/teamgen/core/balance"
	"github.com/kilianp07/teamgen/core/balance/history"
	"github.com/kilianp07/teamgen/core/events"
	coremetrics "github.com/kilianp07/teamgen/core/metrics"
	"github.com/kilianp07/teamgen/core/model"
	coremon "github.com/kilianp07/teamgen/core/monitoring"
	coremqtt "github.com/kilianp07/teamgen/core/mqtt"
	"github.com/kilianp07/teamgen/core/roster"
	"github.com/kilianp07/teamgen/infra/logger"
	inframetrics "github.com/kilianp07/teamgen/infra/metrics"
	inframon "github.com/kilianp07/teamgen/infra/monitoring"
	"github.com/kilianp07/teamgen/infra/mqtt"
	"github.com/kilianp07/teamgen/internal/eventbus"
)

// openHistory is replaced in tests.
var openHistory = history.Open

// Service owns the generator and everything it reports to.
type Service struct {
	cfg       *config.Config
	Generator *balance.Generator
	Store     history.Store
	Sink      coremetrics.MetricsSink
	Bus       *eventbus.TypedBus[events.Event]
	Prefs     *config.Preferences

	mqttClient *mqtt.PahoClient
	publisher  coremqtt.Publisher
	log        logger.Logger

	startOnce sync.Once
	bg        sync.WaitGroup
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := openHistory(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	gen, err := balance.NewGenerator(cfg.Balance, logger.New("generator"))
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	bus := eventbus.NewTyped[events.Event]()
	gen.SetSink(sink)
	gen.SetBus(bus)
	gen.SetMonitor(mon)
	if store != nil {
		gen.SetStore(store)
	}

	svc := &Service{cfg: cfg, Generator: gen, Store: store, Sink: sink, Bus: bus, log: logg}

	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = gen.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqttClient = client
		svc.publisher = mqtt.NewResultPublisher(client, cfg.MQTT)
	}

	prefs, err := config.OpenPreferences(cfg.Preferences.Path)
	if err != nil {
		logg.Warnf("preferences unavailable: %v", err)
	} else {
		svc.Prefs = prefs
	}
	return svc, nil
}

// Config returns the configuration the service was built from.
func (s *Service) Config() *config.Config { return s.cfg }

// Start launches the background consumers of the event bus. It is safe to
// call more than once.
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		inframetrics.StartEventCollector(ctx, s.Bus, s.Sink)
		if s.publisher == nil {
			return
		}
		n, err := mqtt.NewNotifier(s.Bus, s.publisher)
		if err != nil {
			s.log.Errorf("mqtt notifier: %v", err)
			return
		}
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			defer coremon.Recover()
			n.Run(ctx)
		}()
	})
}

// LoadRoster fetches and parses the roster at ref, or at the configured
// source when ref is empty. Skipped rows are logged and returned.
func (s *Service) LoadRoster(ctx context.Context, ref string) (roster.Roster, error) {
	if ref == "" {
		ref = s.cfg.Roster.Source
	}
	src, err := connfactory.NewSource(ref, s.cfg.Auth)
	if err != nil {
		return roster.Roster{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Roster.Timeout())
	defer cancel()
	r, err := src.Fetch(ctx)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("load roster from %s: %w", src.Name(), err)
	}
	s.RecordRoster(ref, r)
	return r, nil
}

// RecordRoster logs skipped rows and announces the import on the bus.
func (s *Service) RecordRoster(source string, r roster.Roster) {
	for _, re := range r.Skipped {
		s.log.Warnf("skipped roster row: %v", re)
	}
	s.log.Infow("roster loaded", map[string]any{
		"source":    source,
		"attending": len(r.Players),
		"absent":    r.Absent,
		"skipped":   len(r.Skipped),
	})
	s.Bus.Publish(events.RosterEvent{
		Source:    source,
		Attending: len(r.Players),
		Skipped:   len(r.Skipped),
		Time:      time.Now(),
	})
}

// Generate splits players. See balance.Generator.Generate.
func (s *Service) Generate(ctx context.Context, players []model.Player, c model.Constraints) (balance.Generation, error) {
	return s.Generator.Generate(ctx, players, c)
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return teams.NewRouter(s.Generator, s.Store, teams.Options{
		Token:    s.cfg.Server.Token,
		OnRoster: s.RecordRoster,
	})
}

// Run starts the background consumers, the API server and, when a port is
// configured, the Prometheus endpoint. It blocks until ctx is cancelled or
// a server fails.
func (s *Service) Run(ctx context.Context) error {
	s.Start(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.serveHTTP(gctx) })
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		g.Go(func() error { return inframetrics.StartPromServer(gctx, promAddr(port)) })
	}
	return g.Wait()
}

func (s *Service) serveHTTP(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("serving API on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func promAddr(port string) string {
	if _, _, err := net.SplitHostPort(port); err == nil {
		return port
	}
	return ":" + port
}

// Close releases resources held by the service. Buffered events are
// delivered before the MQTT connection is closed.
func (s *Service) Close() error {
	s.Bus.Close()
	s.bg.Wait()
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if c, ok := s.Sink.(interface{ Close() }); ok {
		c.Close()
	}
	err := s.Generator.Close()
	coremon.Flush(2 * time.Second)
	return err
}
