package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/sealstore/node"
	"github.com/tailored-agentic-units/sealstore/observability"
	"github.com/tailored-agentic-units/sealstore/store"
)

type applyOptions struct {
	configFile string
	initFile   string
	updates    []string
	mode       string
	verbose    bool
	metrics    bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sealstore",
		Short:         "Apply partial updates to a sealed state document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newApplyCmd())
	return rootCmd
}

func newApplyCmd() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Load an initial state, apply updates in order, print the result as JSON",
		Long: `Loads the initial state document, then applies each --update document
through SetState in the order given. Documents may be YAML or JSON. The run
stops at the first update that names a key missing from the state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to store config JSON file")
	cmd.Flags().StringVar(&opts.initFile, "init", "", "Path to the initial state document (required)")
	cmd.Flags().StringArrayVar(&opts.updates, "update", nil, "Path to a partial update document; repeatable")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Nested merge mode: replace or preserve (overrides config)")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging to stderr")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print event counters to stderr when done")
	_ = cmd.MarkFlagRequired("init")

	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions) error {
	cfg := store.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := store.LoadConfig(opts.configFile)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if opts.mode != "" {
		cfg.MergeMode = opts.mode
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	initial, err := loadDocument(opts.initFile)
	if err != nil {
		return err
	}

	var observer observability.Observer = observability.NewSlogObserver(logger)
	reg := prometheus.NewRegistry()
	if opts.metrics {
		counters, err := observability.NewPrometheusObserver(reg)
		if err != nil {
			return err
		}
		observer = observability.NewMultiObserver(observer, counters)
	}

	s, err := store.New(&cfg, initial, store.WithObserver(observer))
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	if opts.metrics {
		defer printMetrics(cmd, reg, s)
	}

	for _, path := range opts.updates {
		partial, err := loadDocument(path)
		if err != nil {
			return err
		}
		if err := s.SetStateContext(cmd.Context(), partial); err != nil {
			return fmt.Errorf("update %s rejected: %w", path, err)
		}
	}

	return printState(cmd, s.State())
}

func printMetrics(cmd *cobra.Command, reg *prometheus.Registry, s *store.Store) {
	w := cmd.ErrOrStderr()

	snap := s.Metrics().Snapshot()
	fmt.Fprintf(w, "updates=%d rejected=%d callbacks=%d\n", snap.Updates, snap.Rejected, snap.Callbacks)

	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintf(w, "gather metrics: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), formatLabels(m.GetLabel()), m.GetCounter().GetValue())
		}
	}
}

func formatLabels(labels []*dto.LabelPair) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return strings.Join(parts, ",")
}

func printState(cmd *cobra.Command, state *node.Mapping) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
