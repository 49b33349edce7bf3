package xferctl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jimyag/xfer/pkg/progress"
	"github.com/spf13/cobra"
)

func newCalcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute progress offline from snapshot readings",
	}
	cmd.AddCommand(
		newCalcPercentCommand(),
		newCalcETACommand(),
		newCalcRateCommand(),
	)
	return cmd
}

func newCalcPercentCommand() *cobra.Command {
	var (
		source, dest progress.Reading
		policyName   string
		manual       string
	)

	cmd := &cobra.Command{
		Use:   "percent",
		Short: "Completion percent from source and destination readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := progress.ParsePercentPolicy(policyName)
			if err != nil {
				return err
			}
			derived, ok := policy.Percent(source, dest)
			effective := progress.EffectivePercent(manual, derived, ok)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "policy:    %s\n", policy.Name())
			fmt.Fprintf(out, "derived:   %s\n", progress.FormatPercent(derived, ok))
			fmt.Fprintf(out, "effective: %s\n", progress.FormatPercent(effective, effective > 0))
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&source.Total, "source-total", 0, "source snapshot total capacity")
	f.Float64Var(&source.Used, "source-used", 0, "source snapshot used capacity")
	f.Float64Var(&dest.Total, "dest-total", 0, "destination snapshot total capacity")
	f.Float64Var(&dest.Used, "dest-used", 0, "destination snapshot used capacity")
	f.StringVar(&policyName, "policy", progress.PolicyRatio, "percent policy: ratio or capacity-delta")
	f.StringVar(&manual, "manual", "", "manual percent override, e.g. 42.5")
	return cmd
}

func newCalcETACommand() *cobra.Command {
	var (
		startText    string
		observedText string
		percent      float64
	)

	cmd := &cobra.Command{
		Use:   "eta",
		Short: "Estimated completion time from a start time and a percent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := progress.ParseTimePoint(startText)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			observed, err := progress.ParseTimePoint(observedText)
			if err != nil {
				return fmt.Errorf("--observed: %w", err)
			}
			if observed.IsZero() {
				observed = time.Now()
			}

			out := cmd.OutOrStdout()
			eta, ok := progress.EstimateCompletion(start, observed, percent)
			if ok {
				fmt.Fprintf(out, "eta:       %s\n", eta.Format(time.RFC3339))
				fmt.Fprintf(out, "remaining: %s\n", progress.RemainingDuration(eta, observed))
			} else {
				fmt.Fprintf(out, "eta:       %s\n", progress.Placeholder)
				fmt.Fprintf(out, "remaining: %s\n", progress.Placeholder)
			}
			fmt.Fprintf(out, "elapsed:   %s\n", progress.ElapsedDuration(start, observed))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&startText, "start", "", "transfer start time (RFC3339 or 2006-01-02T15:04)")
	f.StringVar(&observedText, "observed", "", "observation time, defaults to now")
	f.Float64Var(&percent, "percent", 0, "completion percent in (0, 100]")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("percent")
	return cmd
}

func newCalcRateCommand() *cobra.Command {
	var (
		volume  string
		unit    string
		samples []string
	)

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Transfer rate from the last two used-capacity samples",
		Example: `  xferctl calc rate --sample 2025-09-01T08:00:00Z=1 --sample 2025-09-01T09:00:00Z=3
  2.00 TB/hour`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := make([]progress.HistoryEntry, 0, len(samples))
			for _, s := range samples {
				entry, err := parseSample(s)
				if err != nil {
					return err
				}
				entry.Volume = volume
				history = append(history, entry)
			}

			rate, ok := progress.RateFromHistory(history, volume, unit)
			fmt.Fprintln(cmd.OutOrStdout(), progress.FormatRate(rate, ok))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&volume, "volume", "B", "snapshot name the samples belong to")
	f.StringVar(&unit, "unit", progress.DefaultUnit, "capacity unit")
	f.StringArrayVar(&samples, "sample", nil, "TIME=USED sample, repeatable")
	return cmd
}

// parseSample 解析 TIME=USED 格式的采样
func parseSample(s string) (progress.HistoryEntry, error) {
	at, used, found := strings.Cut(s, "=")
	if !found {
		return progress.HistoryEntry{}, fmt.Errorf("sample %q must look like TIME=USED", s)
	}
	observed, err := progress.ParseTimePoint(at)
	if err != nil {
		return progress.HistoryEntry{}, fmt.Errorf("sample %q: %w", s, err)
	}
	if observed.IsZero() {
		return progress.HistoryEntry{}, fmt.Errorf("sample %q has no time", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(used), 64)
	if err != nil {
		return progress.HistoryEntry{}, fmt.Errorf("sample %q: invalid used value: %w", s, err)
	}
	return progress.HistoryEntry{
		Reading:    progress.Reading{Used: v},
		ObservedAt: observed,
	}, nil
}
