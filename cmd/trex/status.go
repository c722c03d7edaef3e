package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/automenta/trex-autonomy/pkg/agentjournal"
)

var statusDB string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "report the last recorded tick boundary and recent reactor failures from a journal",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusDB, "db", envOr("TREX_DB", ""), "path to the SQLite journal database (required)")
	statusCmd.MarkFlagRequired("db")
}

func runStatus(cmd *cobra.Command, args []string) error {
	j, err := agentjournal.Open(statusDB)
	if err != nil {
		return exitWith(exitFail, fmt.Errorf("opening journal: %w", err))
	}
	defer j.Close()

	t, at, ok, err := j.LastTickBoundary()
	if err != nil {
		return exitWith(exitFail, err)
	}
	if !ok {
		fmt.Println("no tick boundaries recorded yet")
	} else {
		fmt.Printf("last tick: %d, recorded %s\n", t, humanize.Time(at))
	}

	failures, err := j.RecentFailures(5)
	if err != nil {
		return exitWith(exitFail, err)
	}
	if len(failures) == 0 {
		fmt.Println("no reactor failures recorded")
		return nil
	}
	fmt.Println("recent failures:")
	for _, f := range failures {
		fmt.Printf("  tick %d: %s failed during %s (%s): %s\n", f.Tick, f.Reactor, f.Phase, humanize.Time(f.RecordedAt), f.Detail)
	}
	return nil
}
