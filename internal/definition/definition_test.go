package definition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvindkr/geoflow/internal/definition"
)

func TestParse(t *testing.T) {
	doc := []byte(`
name: sample
steps:
  - taskType: polygonArea
    stepNumber: 1
  - taskType: notification
    stepNumber: 2
    dependsOn: 1
`)
	wf, err := definition.Parse(doc)
	assert.NoError(t, err)
	assert.Equal(t, "sample", wf.Name)
	assert.Len(t, wf.Steps, 2)
	assert.Nil(t, wf.Steps[0].DependsOn)
	assert.NotNil(t, wf.Steps[1].DependsOn)
	assert.Equal(t, 1, *wf.Steps[1].DependsOn)
}

func TestLoader_LoadAndList(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "one.yaml"), []byte("name: one\nsteps:\n  - taskType: analysis\n    stepNumber: 1\n"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "two.yml"), []byte("name: two\nsteps:\n  - taskType: analysis\n    stepNumber: 1\n"), 0644))

	loader := definition.NewLoader(dir)

	names, err := loader.List()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, names)

	wf, err := loader.Load("one")
	assert.NoError(t, err)
	assert.Equal(t, "one", wf.Name)

	_, err = loader.Load("missing")
	assert.Error(t, err)
}
