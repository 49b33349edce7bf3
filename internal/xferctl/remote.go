package xferctl

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jimyag/xfer/internal/xfer/entity"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/spf13/cobra"
)

func newProgressCommand(opts *options) *cobra.Command {
	var observedAt string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show percent, ETA and rate of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp entity.DescribeProgressResponse
			err := NewClient(opts.server()).Call(cmd.Context(), "describe-progress",
				&entity.DescribeProgressRequest{ObservedAt: observedAt}, &resp)
			if err != nil {
				return err
			}
			if resp.Progress == nil {
				return fmt.Errorf("empty progress response")
			}
			printProgress(cmd.OutOrStdout(), resp.Progress, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&observedAt, "observed-at", "", "observation time, defaults to the session's last update")
	return cmd
}

func printProgress(out io.Writer, p *entity.Progress, now time.Time) {
	s := p.Summary
	eta := progress.Placeholder
	if s.ETA != nil {
		eta = s.ETA.Local().Format("2006-01-02 15:04")
	}
	observed := p.ObservedAt
	if t, err := time.Parse(time.RFC3339, p.ObservedAt); err == nil {
		observed = fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04"), humanize.RelTime(t, now, "ago", "from now"))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s -> %s\t%s\n", p.Source, p.Destination, s.PercentText)
	fmt.Fprintf(w, "effective\t%.2f%%\n", s.EffectivePercent)
	fmt.Fprintf(w, "elapsed\t%s\n", s.Elapsed)
	fmt.Fprintf(w, "remaining\t%s\n", s.Remaining)
	fmt.Fprintf(w, "eta\t%s\n", eta)
	fmt.Fprintf(w, "rate\t%s\n", s.RateText)
	fmt.Fprintf(w, "observed\t%s\n", observed)
	w.Flush()
}

func newFreeCommand(opts *options) *cobra.Command {
	var observedAt string

	cmd := &cobra.Command{
		Use:   "free <snapshot> <free>",
		Short: "Record the free space of a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			free, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid free space %q: %w", args[1], err)
			}

			var resp entity.UpdateSnapshotResponse
			err = NewClient(opts.server()).Call(cmd.Context(), "update-free-space", &entity.UpdateFreeSpaceRequest{
				SnapshotName: args[0],
				Free:         &free,
				ObservedAt:   observedAt,
			}, &resp)
			if err != nil {
				return err
			}
			if resp.Snapshot != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: total %g, free %g, used %g\n",
					resp.Snapshot.Name, resp.Snapshot.Total, resp.Snapshot.Free, resp.Snapshot.Used)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&observedAt, "observed-at", "", "time of the reading, defaults to now")
	return cmd
}

func newJobCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage the jobs of the current session",
	}

	var startTime string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp entity.AddJobResponse
			err := NewClient(opts.server()).Call(cmd.Context(), "add-job",
				&entity.AddJobRequest{Name: args[0], StartTime: startTime}, &resp)
			if err != nil {
				return err
			}
			if resp.Job != nil {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Job.ID)
			}
			return nil
		},
	}
	add.Flags().StringVar(&startTime, "start-time", "", "job start time, e.g. 17:55")

	rm := &cobra.Command{
		Use:     "rm <job-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a job",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp entity.RemoveJobResponse
			err := NewClient(opts.server()).Call(cmd.Context(), "remove-job",
				&entity.RemoveJobRequest{JobID: args[0]}, &resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List jobs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp entity.ListJobsResponse
			if err := NewClient(opts.server()).Call(cmd.Context(), "list-jobs", nil, &resp); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTART")
			for _, j := range resp.Jobs {
				start := j.StartTime
				if start == "" {
					start = progress.Placeholder
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", j.ID, j.Name, start)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}
