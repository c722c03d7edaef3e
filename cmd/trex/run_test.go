package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestValidate_AcceptsWellFormedConfig(t *testing.T) {
	path := writeTestConfig(t)
	if _, err := execRoot(t, "validate", "--config", path); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_RejectsDuplicateInternal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.xml")
	data := []byte(`<Agent name="rover" finalTick="5">
		<Reactor name="nav" component="trex.test.cliStub" latency="0" lookAhead="1"/>
		<Reactor name="other" component="trex.test.cliStub" latency="0" lookAhead="1"/>
	</Agent>`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := execRoot(t, "validate", "--config", path)
	if err == nil {
		t.Fatal("expected a configuration error for two reactors claiming the same internal timeline")
	}
	if exitCode(err) != exitConfig {
		t.Fatalf("expected exitConfig, got %d", exitCode(err))
	}
}

func TestTopology_PrintsAssembledOrder(t *testing.T) {
	path := writeTestConfig(t)
	if _, err := execRoot(t, "topology", "--config", path); err != nil {
		t.Fatalf("topology: %v", err)
	}
}
