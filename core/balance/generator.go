package balance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/teamgen/core/balance/history"
	"github.com/kilianp07/teamgen/core/events"
	"github.com/kilianp07/teamgen/core/logger"
	"github.com/kilianp07/teamgen/core/metrics"
	"github.com/kilianp07/teamgen/core/model"
	"github.com/kilianp07/teamgen/core/monitoring"
	"github.com/kilianp07/teamgen/internal/eventbus"
)

// Generation is one accepted split together with its identity and report.
type Generation struct {
	ID          uuid.UUID         `json:"id"`
	Time        time.Time         `json:"time"`
	Constraints model.Constraints `json:"constraints"`
	Result      Result            `json:"result"`
	Report      Report            `json:"report"`
}

// Generator runs searches and fans the outcome out to the configured
// collaborators. It remembers the last accepted generation; failures never
// replace it.
type Generator struct {
	cfg     Config
	src     RandomSource
	logger  logger.Logger
	metrics metrics.MetricsSink
	store   history.Store
	bus     eventbus.Publisher[events.Event]
	monitor monitoring.Monitor
	now     func() time.Time
	newID   func() uuid.UUID

	mu   sync.Mutex
	last *Generation
}

// NewGenerator creates a Generator. cfg receives defaults; a nil log is not
// allowed.
func NewGenerator(cfg Config, log logger.Logger) (*Generator, error) {
	if log == nil {
		return nil, errors.New("balance: logger is required")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		cfg:     cfg,
		src:     DefaultSource(),
		logger:  log,
		metrics: metrics.NopSink{},
		monitor: monitoring.NopMonitor{},
		now:     time.Now,
		newID:   uuid.New,
	}, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// SetSource replaces the random source, mainly for reproducible runs. The
// source is synchronized since Generate may run concurrently.
func (g *Generator) SetSource(src RandomSource) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if src == nil {
		src = DefaultSource()
	}
	g.src = Synchronized(src)
}

// SetSink configures the metrics sink.
func (g *Generator) SetSink(s metrics.MetricsSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s == nil {
		s = metrics.NopSink{}
	}
	g.metrics = s
}

// SetStore configures the store used to persist generations.
func (g *Generator) SetStore(s history.Store) {
	g.mu.Lock()
	g.store = s
	g.mu.Unlock()
}

// SetBus configures the bus generation events are published on.
func (g *Generator) SetBus(b eventbus.Publisher[events.Event]) {
	g.mu.Lock()
	g.bus = b
	g.mu.Unlock()
}

// SetMonitor configures error reporting for collaborator failures.
func (g *Generator) SetMonitor(m monitoring.Monitor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m == nil {
		m = monitoring.NopMonitor{}
	}
	g.monitor = m
}

// Last returns the most recent accepted generation.
func (g *Generator) Last() (Generation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return Generation{}, false
	}
	return *g.last, true
}

// Generate splits roster under c. A zero c.MaxRatingDelta uses the
// configured delta; nil c.MinPositionCounts uses the configured counts.
func (g *Generator) Generate(ctx context.Context, roster []model.Player, c model.Constraints) (Generation, error) {
	return g.generate(ctx, roster, g.constraints(c))
}

// GenerateExact is Generate with c.MaxRatingDelta taken as given, so an
// explicit zero is rejected as unsatisfiable instead of replaced.
func (g *Generator) GenerateExact(ctx context.Context, roster []model.Player, c model.Constraints) (Generation, error) {
	delta := c.MaxRatingDelta
	c = g.constraints(c)
	c.MaxRatingDelta = delta
	return g.generate(ctx, roster, c)
}

func (g *Generator) generate(ctx context.Context, roster []model.Player, c model.Constraints) (Generation, error) {
	g.mu.Lock()
	src := g.src
	g.mu.Unlock()

	start := g.now()
	res, err := SearchContext(ctx, roster, c, g.cfg.MaxTrials, src)
	elapsed := g.now().Sub(start)

	gen := Generation{ID: g.newID(), Time: start, Constraints: c}
	if err == nil {
		if g.cfg.SortByName {
			res.SortByName()
		}
		gen.Result = res
		gen.Report = NewReport(res, g.cfg.Offset())
	}
	g.record(ctx, gen, len(roster), res.Trials, elapsed, err)

	if err != nil {
		g.logger.Warnf("generation %s failed after %d trials: %v", gen.ID, res.Trials, err)
		return Generation{}, err
	}
	g.logger.Infow("teams generated", map[string]any{
		"id":       gen.ID.String(),
		"players":  len(roster),
		"trials":   res.Trials,
		"rating_a": res.RatingA,
		"rating_b": res.RatingB,
		"delta":    res.Delta(),
	})
	g.mu.Lock()
	g.last = &gen
	g.mu.Unlock()
	return gen, nil
}

func (g *Generator) constraints(c model.Constraints) model.Constraints {
	def := g.cfg.Constraints()
	if c.MaxRatingDelta == 0 {
		c.MaxRatingDelta = def.MaxRatingDelta
	}
	if c.MinPositionCounts == nil {
		c.MinPositionCounts = def.MinPositionCounts
	}
	return c
}

// record forwards the attempt to the sink, the store and the bus. Failures
// of those collaborators are logged and reported, never returned.
func (g *Generator) record(ctx context.Context, gen Generation, players, trials int, elapsed time.Duration, genErr error) {
	g.mu.Lock()
	sink, store, bus, mon := g.metrics, g.store, g.bus, g.monitor
	g.mu.Unlock()

	outcome := Outcome(genErr)
	res := gen.Result
	rec := metrics.GenerationRecord{
		ID:       gen.ID,
		Time:     gen.Time,
		Players:  players,
		RatingA:  res.RatingA,
		RatingB:  res.RatingB,
		Delta:    res.Delta(),
		MaxDelta: gen.Constraints.MaxRatingDelta,
		Trials:   trials,
		Outcome:  outcome,
		Duration: elapsed,
		HalfName: res.HalfName,
	}
	if err := sink.RecordGeneration(rec); err != nil {
		g.logger.Errorf("record generation metrics: %v", err)
		mon.CaptureException(err, map[string]string{"component": "metrics", "generation": gen.ID.String()})
	}

	if store != nil {
		hr := history.Record{
			ID:          gen.ID.String(),
			Timestamp:   gen.Time,
			Players:     players,
			Constraints: gen.Constraints,
			SideA:       res.SideA,
			SideB:       res.SideB,
			RatingA:     res.RatingA,
			RatingB:     res.RatingB,
			Trials:      trials,
			Outcome:     outcome,
		}
		if genErr != nil {
			hr.Error = genErr.Error()
		}
		// the search context may already be cancelled; persisting the
		// attempt must not depend on it
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := store.Append(sctx, hr); err != nil {
			g.logger.Errorf("persist generation %s: %v", gen.ID, err)
			mon.CaptureException(err, map[string]string{"component": "history", "generation": gen.ID.String()})
		}
		cancel()
	}

	if bus != nil {
		bus.Publish(events.GenerationEvent{
			ID:          gen.ID,
			Time:        gen.Time,
			Players:     players,
			Constraints: gen.Constraints,
			SideA:       res.SideA,
			SideB:       res.SideB,
			RatingA:     res.RatingA,
			RatingB:     res.RatingB,
			Trials:      trials,
			Outcome:     outcome,
			Err:         genErr,
		})
	}
}

// Close releases the history store.
func (g *Generator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.store == nil {
		return nil
	}
	err := g.store.Close()
	g.store = nil
	return err
}
