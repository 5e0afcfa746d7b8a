package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"mission-control/internal/budget"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type scenarioOptions struct {
	scenario string
	sets     []string
	restore  bool
	reset    bool
	save     bool
	csvPath  string
}

func newScenarioCmd(root *rootOptions) *cobra.Command {
	opts := &scenarioOptions{}

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Compute a budget scenario",
		Example: `  mission-control scenario --scenario conservative
  mission-control scenario --set grants=40000 --set services=12000 --save
  mission-control scenario --restore --csv results/breakdown.csv
  mission-control scenario --restore --reset --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			snapshots := budget.NewSnapshotStore(cfg.Budget.SnapshotDir)
			m, err := opts.model(cmd, snapshots)
			if err != nil {
				return err
			}

			printScenario(cmd.OutOrStdout(), m)

			if opts.csvPath != "" {
				if err := budget.WriteBreakdownCSV(opts.csvPath, m.Breakdown()); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
				logger.Info("wrote breakdown", zap.String("path", opts.csvPath))
			}
			if opts.save {
				if err := snapshots.Save(m.Snapshot(time.Now())); err != nil {
					return err
				}
				logger.Info("saved snapshot", zap.String("path", snapshots.Path()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "conservative, realistic or optimistic (default realistic)")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Override a stream value as id=value; repeatable")
	cmd.Flags().BoolVar(&opts.restore, "restore", false, "Start from the last saved snapshot")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "Put every stream back to its default value, keeping the scenario")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the result as the current snapshot")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Write the per-stream breakdown to this CSV path")
	return cmd
}

// model builds the worksheet: the optional snapshot first, then --reset, --scenario and
// finally the --set overrides.
func (o *scenarioOptions) model(cmd *cobra.Command, snapshots *budget.SnapshotStore) (*budget.Model, error) {
	m := budget.NewModel()
	if o.restore {
		snap, err := snapshots.Load()
		if err != nil {
			return nil, err
		}
		if m, err = snap.Restore(); err != nil {
			return nil, err
		}
	}
	if o.reset {
		m.Reset()
	}
	if cmd.Flags().Changed("scenario") {
		sc, err := budget.ParseScenario(o.scenario)
		if err != nil {
			return nil, err
		}
		m.SetScenario(sc)
	}
	values, err := parseSets(o.sets)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(values); err != nil {
		return nil, err
	}
	return m, nil
}

// parseSets turns "id=value" pairs into stream values.
func parseSets(sets []string) ([]budget.StreamValue, error) {
	out := make([]budget.StreamValue, 0, len(sets))
	for _, s := range sets {
		id, raw, ok := strings.Cut(s, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q: want id=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", s, err)
		}
		out = append(out, budget.StreamValue{ID: id, Value: v})
	}
	return out, nil
}

func printScenario(out io.Writer, m *budget.Model) {
	res := m.Result()

	fmt.Fprintf(out, "Scenario: %s (x%.2f)\n\n", m.Scenario, m.Scenario.Multiplier())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAM\tPROJECTED\tPOTENTIAL\tSHARE")
	for _, r := range m.Breakdown() {
		fmt.Fprintf(tw, "%s\t$%d\t$%d\t%.1f%%\n", r.Name, r.Projected, r.Potential, r.Share*100)
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Deficit:         $%.0f\n", m.Deficit)
	fmt.Fprintf(out, "Total projected: $%d\n", res.TotalProjected)
	fmt.Fprintf(out, "Gap covered:     %d%%\n", res.GapCovered)
	if res.IsDeficitClosed {
		fmt.Fprintf(out, "Deficit closed. Surplus: $%d\n", res.Surplus)
	} else {
		fmt.Fprintf(out, "Remaining gap:   $%d\n", res.Gap)
	}
}
