package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/morphogen/creature"
	"github.com/pthm-cable/morphogen/genome"
	"github.com/pthm-cable/morphogen/survey"
	"github.com/pthm-cable/morphogen/telemetry"
)

func (a *app) rng() *rand.Rand {
	return rand.New(rand.NewSource(a.seed))
}

func (a *app) readGenome(path string) (genome.Genome, error) {
	return genome.FromCSV(path, a.cfg.Derived.Spec)
}

func (a *app) loadCreature(path string) (*creature.Creature, error) {
	g, err := a.readGenome(path)
	if err != nil {
		return nil, err
	}
	return creature.FromGenome(a.cfg.Derived.Spec, g)
}

// writeGenome writes to path, or to the command's stdout when path is empty.
func (a *app) writeGenome(cmd *cobra.Command, g genome.Genome, path string) error {
	if path == "" {
		return genome.WriteCSV(cmd.OutOrStdout(), g, a.cfg.Derived.Spec)
	}
	if err := genome.ToCSV(g, a.cfg.Derived.Spec, path); err != nil {
		return err
	}
	slog.Info("genome written", "path", path, "genes", len(g))
	return nil
}

func (a *app) randomCmd() *cobra.Command {
	var genes int
	var out string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "write a random genome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genes == 0 {
				genes = a.cfg.Genome.GeneCount
			}
			g, err := genome.RandomGenome(a.rng(), a.cfg.Derived.Spec, genes)
			if err != nil {
				return err
			}
			return a.writeGenome(cmd, g, out)
		},
	}
	cmd.Flags().IntVar(&genes, "genes", 0, "number of genes (0 = genome.gene_count)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV (empty = stdout)")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [genome.csv]",
		Short: "print the expanded body plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCreature(args[0])
			if err != nil {
				return err
			}
			expanded, err := c.ExpandedNodes()
			if err != nil {
				return err
			}
			motors, err := c.Motors()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LINK\tPARENT\tSIBLING\tLENGTH\tRADIUS\tMOTOR")
			for i, n := range expanded {
				parent, kind := "-", "-"
				if !n.IsRoot() {
					parent = n.ParentName
					kind = motors[i-1].Type().String()
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%.3f\t%s\n",
					n.Name, parent, n.SiblingIndex, n.Length, n.Radius, kind)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			stats, err := telemetry.ComputeBodyStats(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\ngenes=%d links=%d depth=%d max_fanout=%d pulse=%d sine=%d mass=%.4f\n",
				stats.Genes, stats.Links, stats.Depth, stats.MaxFanOut,
				stats.PulseMotors, stats.SineMotors, stats.TotalMass)
			return nil
		},
	}
}

func (a *app) urdfCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "urdf [genome.csv]",
		Short: "render a genome as a URDF document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCreature(args[0])
			if err != nil {
				return err
			}
			data, err := c.URDF(a.cfg.URDFOptions())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("writing urdf: %w", err)
			}
			slog.Info("urdf written", "path", out, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (empty = stdout)")
	return cmd
}

func (a *app) mutateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "mutate [genome.csv]",
		Short: "apply point, shrink and grow mutation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGenome(args[0])
			if err != nil {
				return err
			}
			child := genome.NewOperators(a.rng()).Mutate(g, a.cfg.MutationRates())
			slog.Debug("mutated", "genes_before", len(g), "genes_after", len(child))
			return a.writeGenome(cmd, child, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV (empty = stdout)")
	return cmd
}

func (a *app) crossoverCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "crossover [a.csv] [b.csv]",
		Short: "splice two genomes at a random point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g1, err := a.readGenome(args[0])
			if err != nil {
				return err
			}
			g2, err := a.readGenome(args[1])
			if err != nil {
				return err
			}
			child, err := genome.NewOperators(a.rng()).Crossover(g1, g2)
			if err != nil {
				return err
			}
			return a.writeGenome(cmd, child, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV (empty = stdout)")
	return cmd
}

func (a *app) motorsCmd() *cobra.Command {
	var ticks int
	var plot bool

	cmd := &cobra.Command{
		Use:   "motors [genome.csv]",
		Short: "print motor output per tick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks == 0 {
				ticks = a.cfg.Motors.Ticks
			}
			c, err := a.loadCreature(args[0])
			if err != nil {
				return err
			}
			motors, err := c.Motors()
			if err != nil {
				return err
			}
			expanded, err := c.ExpandedNodes()
			if err != nil {
				return err
			}

			series := make([][]float64, len(motors))
			for t := 0; t < ticks; t++ {
				for i, m := range motors {
					series[i] = append(series[i], m.Sample())
				}
			}

			if plot {
				return plotMotors(cmd.OutOrStdout(), series)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "TICK")
			for _, n := range expanded[1:] {
				fmt.Fprintf(w, "\t%s", n.Name)
			}
			fmt.Fprintln(w)
			for t := 0; t < ticks; t++ {
				fmt.Fprintf(w, "%d", t)
				for i := range motors {
					fmt.Fprintf(w, "\t%.3f", series[i][t])
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "samples per motor (0 = motors.ticks)")
	cmd.Flags().BoolVar(&plot, "plot", false, "draw an ASCII chart instead of a table")
	return cmd
}

func plotMotors(w io.Writer, series [][]float64) error {
	if len(series) == 0 || len(series[0]) == 0 {
		_, err := fmt.Fprintln(w, "no motors")
		return err
	}
	graph := asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%d motors", len(series))),
	)
	_, err := fmt.Fprintln(w, graph)
	return err
}

func (a *app) surveyCmd() *cobra.Command {
	var count, workers, genes int
	var outputDir string
	var mutate bool

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "build many random creatures and summarize their bodies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("count") {
				cfg.Survey.Count = count
			}
			if cmd.Flags().Changed("workers") {
				cfg.Survey.Workers = workers
			}
			if cmd.Flags().Changed("genes") {
				cfg.Genome.GeneCount = genes
			}
			if cmd.Flags().Changed("mutate") {
				cfg.Survey.Mutate = mutate
			}
			if err := cfg.Refresh(); err != nil {
				return err
			}

			om, err := telemetry.NewOutputManager(outputDir)
			if err != nil {
				return err
			}
			defer om.Close()
			if err := om.WriteConfig(cfg); err != nil {
				return err
			}

			slog.Info("starting survey",
				"count", cfg.Survey.Count,
				"workers", cfg.Derived.Workers,
				"genes", cfg.Genome.GeneCount,
				"seed", a.seed,
				"output_dir", om.Dir(),
			)

			res, err := survey.Run(cmd.Context(), survey.Options{
				Spec:      cfg.Derived.Spec,
				Count:     cfg.Survey.Count,
				GeneCount: cfg.Genome.GeneCount,
				Workers:   cfg.Derived.Workers,
				Seed:      a.seed,
				Mutate:    cfg.Survey.Mutate,
				Rates:     cfg.MutationRates(),
			})
			if err != nil {
				return err
			}

			if err := om.WriteBodies(res.Bodies); err != nil {
				return err
			}
			if err := om.WritePerf(res.Perf, len(res.Bodies)); err != nil {
				return err
			}
			telemetry.Aggregate(res.Bodies).LogStats()
			res.Perf.LogStats()
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "creatures to build (default survey.count)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default survey.workers)")
	cmd.Flags().IntVar(&genes, "genes", 0, "genes per creature (default genome.gene_count)")
	cmd.Flags().BoolVar(&mutate, "mutate", false, "mutate each creature before measuring")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for bodies.csv, perf.csv and config.yaml")
	return cmd
}
