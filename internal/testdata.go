package internal

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/eak1mov/go-libworld/ldtk"
	"github.com/stretchr/testify/require"
)

// TestdataPath returns the path of a file in the module's testdata directory.
func TestdataPath(fileName string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "testdata", fileName)
}

func ReadTestdata(t testing.TB, fileName string) []byte {
	t.Helper()
	data, err := os.ReadFile(TestdataPath(fileName))
	require.NoError(t, err)
	return data
}

// SampleProject decodes testdata/sample.ldtk.
func SampleProject(t testing.TB) *ldtk.Project {
	t.Helper()
	project, err := ldtk.ReadFile(TestdataPath("sample.ldtk"))
	require.NoError(t, err)
	return project
}
