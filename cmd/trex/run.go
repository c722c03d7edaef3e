package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/automenta/trex-autonomy/pkg/agent"
	"github.com/automenta/trex-autonomy/pkg/agentjournal"
	"github.com/automenta/trex-autonomy/pkg/agentstats"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

var (
	runConfigPath string
	runFinalTick  int64
	runDB         string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "assemble and run an agent until its final tick or a fatal reactor failure",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to the agent's XML configuration file (required)")
	runCmd.Flags().Int64Var(&runFinalTick, "final-tick", -1, "override the configured finalTick (-1 keeps the config's value)")
	runCmd.Flags().StringVar(&runDB, "db", envOr("TREX_DB", ""), "path to the SQLite journal database (default: no journal)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := newLogger()

	doc, specs, err := buildSpecs(runConfigPath)
	if err != nil {
		return exitWith(exitConfig, err)
	}

	secondsPerTick := doc.SecondsPerTick
	if secondsPerTick <= 0 {
		secondsPerTick = 1.0
	}
	clock := tick.NewRealTime(secondsPerTick)

	final := tick.Tick(doc.FinalTick)
	if runFinalTick >= 0 {
		final = tick.Tick(runFinalTick)
	}

	dbPath := runDB
	if dbPath == "" {
		dbPath = doc.DB
	}
	var journal agentjournal.Journal
	if dbPath != "" {
		j, err := agentjournal.Open(dbPath)
		if err != nil {
			return exitWith(exitFail, fmt.Errorf("opening journal: %w", err))
		}
		defer j.Close()
		journal = j
	}

	a, err := agent.Assemble(specs, agent.Options{
		Clock:     clock,
		Stats:     agentstats.Default(),
		Journal:   journal,
		Logger:    log,
		FinalTick: final,
	})
	if err != nil {
		return exitWith(exitConfig, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("agent run starting", "config", runConfigPath, "finalTick", final)
	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("agent run stopped by signal")
		return nil
	}
	if err != nil {
		return exitWith(exitFail, err)
	}
	log.Info("agent run completed", "finalTick", final)
	return nil
}

// exitWith wraps err in an *exitError carrying the process exit code main
// should use, so subcommands can return through cobra's normal error path
// (running deferred Close calls) instead of calling os.Exit directly.
func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func exitCode(err error) int {
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return exitFail
}
