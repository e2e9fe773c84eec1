// Package definition loads declarative workflow templates: a named
// document listing steps, each with a task type, a step number, and an
// optional dependency on another step (spec §6 "Workflow definition
// file"). Parsing is grounded on the YAML DSL loader in
// GareArc-petri-net-workflow-engine-test's dsl.Parser, which unmarshals a
// workflow document with gopkg.in/yaml.v3 and returns a typed definition
// for the caller to validate and compile.
package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Step is one entry in a workflow template.
type Step struct {
	TaskType   string `yaml:"taskType"`
	StepNumber int    `yaml:"stepNumber"`
	DependsOn  *int   `yaml:"dependsOn,omitempty"`
}

// Workflow is a parsed, not-yet-validated workflow template.
type Workflow struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Loader reads workflow templates from a directory of YAML files.
type Loader struct {
	dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load parses the workflow template named name (without extension) from
// the loader's directory, reading name.yaml, or name.yml when no
// name.yaml exists.
func (l *Loader) Load(name string) (*Workflow, error) {
	path := filepath.Join(l.dir, name+".yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = os.ReadFile(filepath.Join(l.dir, name+".yml"))
	}
	if err != nil {
		return nil, fmt.Errorf("read workflow definition %q: %w", name, err)
	}
	return Parse(data)
}

// List returns the names (without extension) of every workflow template
// available in the loader's directory.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list workflow definitions: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, strings.TrimSuffix(strings.TrimSuffix(e.Name(), ".yaml"), ".yml"))
		}
	}
	return names, nil
}

// Parse unmarshals a workflow template document.
func Parse(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow definition: %w", err)
	}
	return &wf, nil
}
