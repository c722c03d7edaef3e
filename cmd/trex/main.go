// Command trex is the agent runtime's CLI: assemble a reactor topology from
// an XML configuration file, run its tick loop, or inspect it without
// running it.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

// Exit codes, mirroring the teacher CLI's convention of reserving a
// distinct code for "the request was well-formed but rejected" rather than
// collapsing every failure onto 1.
const (
	exitOK   = 0
	exitFail = 1
	// exitConfig is used specifically for configuration-assembly errors
	// (unclaimed external, duplicate internal, priority cycle, malformed
	// XML) — distinguishing "the topology doesn't type-check" from "the
	// topology ran and a reactor failed".
	exitConfig = 2
)

var (
	logLevel string
	jsonLogs bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trex:", err)
		os.Exit(exitCode(err))
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newLogger builds the *slog.Logger every subcommand shares, honoring the
// global --log-level/--json flags.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
