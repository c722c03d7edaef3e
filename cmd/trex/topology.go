package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/automenta/trex-autonomy/pkg/agent"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

var topologyConfigPath string

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "assemble an agent and print its resolved priority order and timeline ownership",
	RunE:  runTopology,
}

func init() {
	topologyCmd.Flags().StringVar(&topologyConfigPath, "config", "", "path to the agent's XML configuration file (required)")
	topologyCmd.MarkFlagRequired("config")
}

func runTopology(cmd *cobra.Command, args []string) error {
	_, specs, err := buildSpecs(topologyConfigPath)
	if err != nil {
		return exitWith(exitConfig, err)
	}

	a, err := agent.Assemble(specs, agent.Options{Clock: tick.NewStepped(1)})
	if err != nil {
		return exitWith(exitConfig, err)
	}

	fmt.Printf("%-4s %-20s %-24s %s\n", "PRI", "REACTOR", "OWNS (internal)", "SUBSCRIBES (external)")
	for _, e := range a.Topology() {
		fmt.Printf("%-4d %-20s %-24s %s\n", e.Priority, e.Name, strings.Join(e.Internals, ","), strings.Join(e.Externals, ","))
	}
	return nil
}
