package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eak1mov/go-libworld/flat"
	"github.com/eak1mov/go-libworld/internal"
	"github.com/eak1mov/go-libworld/watch"
	"github.com/eak1mov/go-libworld/world"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5 * time.Second

func loadJSON(attempts chan<- error) watch.LoadFunc {
	return func(path string) (*world.LevelModel, error) {
		model, err := readModel(path)
		select {
		case attempts <- err:
		default:
		}
		return model, err
	}
}

func readModel(path string) (*world.LevelModel, error) {
	reader, err := flat.NewFileReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.ReadModel()
}

func waitAttempt(t *testing.T, attempts <-chan error) error {
	t.Helper()
	select {
	case err := <-attempts:
		return err
	case <-time.After(waitTimeout):
		t.Fatalf("no load attempt within %v", waitTimeout)
		return nil
	}
}

func TestReloader(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, flat.WriteJSONFile(filePath, internal.ScenarioModel()))

	attempts := make(chan error, 16)
	reloader, err := watch.NewReloader(filePath, loadJSON(attempts), watch.WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer reloader.Close()

	require.NoError(t, waitAttempt(t, attempts))
	require.Equal(t, "Scenario", reloader.Current().Rooms[0].DisplayName)

	// A broken save keeps the previous model.
	require.NoError(t, os.WriteFile(filePath, []byte("{"), 0o644))
	require.Error(t, waitAttempt(t, attempts))
	require.Equal(t, "Scenario", reloader.Current().Rooms[0].DisplayName)

	require.NoError(t, flat.WriteJSONFile(filePath, internal.RichModel()))
	select {
	case <-reloader.Reloaded():
	case <-time.After(waitTimeout):
		t.Fatalf("no reload within %v", waitTimeout)
	}
	require.Equal(t, "Hall", reloader.Current().Rooms[0].DisplayName)
}

func TestReloaderIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "model.json")
	require.NoError(t, flat.WriteJSONFile(filePath, internal.ScenarioModel()))

	attempts := make(chan error, 16)
	reloader, err := watch.NewReloader(filePath, loadJSON(attempts), watch.WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer reloader.Close()
	require.NoError(t, waitAttempt(t, attempts))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	select {
	case err := <-attempts:
		t.Fatalf("unexpected reload: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReloaderFirstLoadFails(t *testing.T) {
	attempts := make(chan error, 1)
	_, err := watch.NewReloader(filepath.Join(t.TempDir(), "missing.json"), loadJSON(attempts))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReloaderCloseTwice(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, flat.WriteJSONFile(filePath, internal.ScenarioModel()))

	reloader, err := watch.NewReloader(filePath, loadJSON(make(chan error, 1)))
	require.NoError(t, err)
	require.NoError(t, reloader.Close())
	require.NoError(t, reloader.Close())
}
