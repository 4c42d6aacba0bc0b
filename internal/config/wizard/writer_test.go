package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/settings"
)

func TestWriteDocument(t *testing.T) {
	t.Parallel()
	outputPath := filepath.Join(t.TempDir(), "kubecloud.yaml")

	doc, err := BuildDocument(gcpResult())
	require.NoError(t, err)
	require.NoError(t, WriteDocument(doc, outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# kubecloud settings")
	assert.Contains(t, string(content), "cloudProvider: gcp")
	assert.Contains(t, string(content), "instanceSize: large")
	assert.NotContains(t, string(content), "awsEnableEbsCsi")

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteDocument_ReadsBack(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "kubecloud.yaml")

	doc, err := BuildDocument(gcpResult())
	require.NoError(t, err)
	require.NoError(t, WriteDocument(doc, outputPath))

	s, err := settings.Load(outputPath)
	require.NoError(t, err)
	cfg, err := config.Load(s)
	require.NoError(t, err)
	assert.Equal(t, "proj-1", cfg.GCP.ProjectID)
	assert.False(t, cfg.GCP.ZonalCluster)
	assert.Equal(t, 4, cfg.NodePools[0].MaxSize)
	assert.Equal(t, map[string]string{"role": "worker"}, cfg.NodePools[0].Labels)
}

func TestWriteDocument_BadPath(t *testing.T) {
	t.Parallel()
	doc, err := BuildDocument(gcpResult())
	require.NoError(t, err)
	err = WriteDocument(doc, filepath.Join(t.TempDir(), "missing", "kubecloud.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}

func TestFileExists(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "x.yaml")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.True(t, FileExists(path))
}

func TestConfirmOverwrite(t *testing.T) {
	orig := confirmOverwrite
	t.Cleanup(func() { confirmOverwrite = orig })

	var asked string
	confirmOverwrite = func(path string) (bool, error) {
		asked = path
		return true, nil
	}

	ok, err := ConfirmOverwrite("kubecloud.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kubecloud.yaml", asked)
}
