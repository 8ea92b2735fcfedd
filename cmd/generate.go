package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teamgen/app"
	"github.com/kilianp07/teamgen/config"
	"github.com/kilianp07/teamgen/core/balance"
	"github.com/kilianp07/teamgen/core/model"
	"github.com/kilianp07/teamgen/infra/logger"
	"github.com/kilianp07/teamgen/pkg/display"
	"github.com/kilianp07/teamgen/pkg/export"
)

type generateOpts struct {
	source   string
	delta    float64
	mins     map[string]int
	seed     uint64
	format   string
	output   string
	colorA   string
	colorB   string
	remember bool
}

func newGenerateCmd(load configLoader) *cobra.Command {
	var o generateOpts
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate two balanced teams from a roster",
		Example: `  teamgen generate --source players.csv --delta 1.5 --min gk=1
  teamgen generate --source "https://docs.google.com/spreadsheets/d/<id>/edit#gid=0" --export html -o teams.html`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.source, "source", "s", "", "roster file or sheet link (default from preferences, then config)")
	f.Float64VarP(&o.delta, "delta", "d", 0, "max rating delta between teams, compared strictly")
	f.StringToIntVar(&o.mins, "min", nil, "minimum players per team for a position, e.g. gk=1,df=2")
	f.Uint64Var(&o.seed, "seed", 0, "seed for a reproducible split")
	f.StringVar(&o.format, "export", "", "write csv, json, yaml or html instead of the table")
	f.StringVarP(&o.output, "output", "o", "", "export destination (default stdout)")
	f.StringVar(&o.colorA, "color-a", "", "team A color, #rrggbb or rgb(r, g, b)")
	f.StringVar(&o.colorB, "color-b", "", "team B color, #rrggbb or rgb(r, g, b)")
	f.BoolVar(&o.remember, "remember", false, "save source, delta and colors as preferences")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, o generateOpts) error {
	switch o.format {
	case "", export.FormatCSV, export.FormatJSON, export.FormatYAML, export.FormatChart:
	default:
		return fmt.Errorf("unknown export format %q", o.format)
	}
	ctx := cmd.Context()
	log := logger.New("generate-command")
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	svc.Start(ctx)
	if cmd.Flags().Changed("seed") {
		svc.Generator.SetSource(balance.NewSeededSource(o.seed))
	}

	flags := cmd.Flags()
	prefs := svc.Prefs
	if !flags.Changed("source") {
		o.source = prefString(prefs, config.PrefSource, "")
	}
	if !flags.Changed("delta") && prefs != nil {
		if _, err := prefs.Get(config.PrefMaxRatingDelta, &o.delta); err != nil {
			log.Warnf("%v", err)
		}
	}
	theme := cfg.Display
	theme.ColorA = pick(flags.Changed("color-a"), o.colorA, prefString(prefs, config.PrefColorA, theme.ColorA))
	theme.ColorB = pick(flags.Changed("color-b"), o.colorB, prefString(prefs, config.PrefColorB, theme.ColorB))
	if err := theme.Validate(); err != nil {
		return err
	}

	r, err := svc.LoadRoster(ctx, o.source)
	if err != nil {
		return err
	}
	for _, re := range r.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", re)
	}

	c := model.Constraints{MaxRatingDelta: o.delta}
	if flags.Changed("min") {
		c.MinPositionCounts = o.mins
	}
	generate := svc.Generate
	if flags.Changed("delta") {
		generate = svc.Generator.GenerateExact
	}
	gen, err := generate(ctx, r.Players, c)
	if err != nil {
		return err
	}

	if o.remember && prefs != nil {
		if err := remember(prefs, o, gen.Constraints.MaxRatingDelta, theme); err != nil {
			log.Warnf("save preferences: %v", err)
		}
	}

	if o.format == "" {
		return display.WriteTable(cmd.OutOrStdout(), theme, gen.Result, gen.Report)
	}
	var w io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return export.Write(w, o.format, export.FromGeneration(gen, theme))
}

func remember(prefs *config.Preferences, o generateOpts, delta float64, theme display.Theme) error {
	if o.source != "" {
		if err := prefs.Set(config.PrefSource, o.source); err != nil {
			return err
		}
	}
	if err := prefs.Set(config.PrefMaxRatingDelta, delta); err != nil {
		return err
	}
	if err := prefs.Set(config.PrefColorA, theme.ColorA); err != nil {
		return err
	}
	if err := prefs.Set(config.PrefColorB, theme.ColorB); err != nil {
		return err
	}
	return prefs.Save()
}

func prefString(prefs *config.Preferences, key, def string) string {
	if prefs == nil {
		return def
	}
	var v string
	if ok, err := prefs.Get(key, &v); !ok || err != nil || v == "" {
		return def
	}
	return v
}

func pick(useFlag bool, flag, fallback string) string {
	if useFlag {
		return flag
	}
	return fallback
}
