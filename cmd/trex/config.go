package main

import (
	"fmt"
	"os"

	"github.com/automenta/trex-autonomy/internal/xmlconfig"
	"github.com/automenta/trex-autonomy/pkg/agent"
)

// loadDocument reads and parses the XML configuration file at path. Errors
// returned from here are always configuration errors (exitConfig), never
// runtime ones.
func loadDocument(path string) (xmlconfig.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return xmlconfig.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := xmlconfig.Parse(data)
	if err != nil {
		return xmlconfig.Document{}, err
	}
	return doc, nil
}

// buildSpecs parses path and resolves every declared reactor against the
// registry, the shared first step of run, validate, and topology.
func buildSpecs(path string) (xmlconfig.Document, []agent.Spec, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return doc, nil, err
	}
	specs, err := doc.BuildSpecs()
	if err != nil {
		return doc, nil, err
	}
	return doc, specs, nil
}
