package di

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/drug-checker/internal/adapters/storage"
	"github.com/mikey/drug-checker/internal/core"
	"github.com/mikey/drug-checker/internal/ports"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBuildContainerRunsMenu(t *testing.T) {
	configFile := writeConfig(t, `
storage:
  type: memory
summary:
  enabled: false
`)
	var out bytes.Buffer
	container, err := BuildContainer(Options{
		ConfigFile: configFile,
		In:         strings.NewReader("7\n"),
		Out:        &out,
	})
	require.NoError(t, err)

	err = container.Invoke(func(frontend ports.Frontend, llmClient core.LLMClient) error {
		assert.Nil(t, llmClient)
		return frontend.Run(context.Background())
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "DRUG INTERACTION CHECKER")
	assert.Contains(t, out.String(), "Thanks for using Drug Interaction Checker")
}

func TestBuildContainerDataDirOverride(t *testing.T) {
	configFile := writeConfig(t, `
storage:
  type: json
summary:
  enabled: false
`)
	dataDir := filepath.Join(t.TempDir(), "data")
	container, err := BuildContainer(Options{ConfigFile: configFile, DataDir: dataDir})
	require.NoError(t, err)

	err = container.Invoke(func(store core.Store) error {
		defer store.Close()
		return store.SaveMedications(context.Background(), []string{"warfarin"})
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dataDir, storage.MedicationsFile))
}

func TestBuildContainerUnsupportedProvider(t *testing.T) {
	configFile := writeConfig(t, `
llm:
  provider: carrier-pigeon
storage:
  type: memory
`)
	container, err := BuildContainer(Options{ConfigFile: configFile})
	require.NoError(t, err)

	err = container.Invoke(func(llmClient core.LLMClient) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider: carrier-pigeon")
}

func TestBuildContainerMissingConfigFile(t *testing.T) {
	container, err := BuildContainer(Options{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
	require.NoError(t, err)

	err = container.Invoke(func(store core.Store) {})
	assert.Error(t, err)
}

func TestResourcesCloseNewestFirstAndKeepGoing(t *testing.T) {
	res := newResources()
	var order []string
	res.track("store", func() error {
		order = append(order, "store")
		return nil
	})
	res.track("LLM client", func() error {
		order = append(order, "LLM client")
		return errors.New("connection reset")
	})

	err := res.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close LLM client: connection reset")
	assert.Equal(t, []string{"LLM client", "store"}, order)

	// A second close has nothing left to do
	assert.NoError(t, res.Close())
}

func TestResourcesTrackOnlyBuiltDependencies(t *testing.T) {
	configFile := writeConfig(t, `
storage:
  type: memory
summary:
  enabled: false
`)
	container, err := BuildContainer(Options{ConfigFile: configFile})
	require.NoError(t, err)

	runErr := container.Invoke(func(store core.Store) error {
		return errors.New("check failed")
	})
	require.ErrorContains(t, runErr, "check failed")

	err = container.Invoke(func(res *Resources) error {
		names := make([]string, 0, len(res.closers))
		for _, c := range res.closers {
			names = append(names, c.name)
		}
		assert.ElementsMatch(t, []string{"logger", "store"}, names)
		return res.Close()
	})
	require.NoError(t, err)
}
