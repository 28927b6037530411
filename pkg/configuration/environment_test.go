package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "ROBOCORE_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "recruitment")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	_ = os.Unsetenv("ROBOCORE_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("ROBOCORE_TEST_ENV_LOAD"))
	_ = os.Unsetenv("ROBOCORE_TEST_ENV_LOAD")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	conf, err := Load(nil)
	require.NoError(t, err)
	t.Cleanup(conf.Unload)

	require.Equal(t, "http://localhost:5000/api", conf.API.BaseURL)
	require.Equal(t, 3*time.Second, conf.Toast.Duration)
	require.Equal(t, 20, conf.Lists.ApplicationsPageSize)
	require.Equal(t, "Asia/Kolkata", conf.Location().String())
	require.NotNil(t, conf.Logger())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("base url", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "not-a-url")
		_, err := Load(nil)
		require.ErrorContains(t, err, "API_BASE_URL")
	})

	t.Run("page size", func(t *testing.T) {
		t.Setenv("APPLICATIONS_PAGE_SIZE", "0")
		_, err := Load(nil)
		require.ErrorContains(t, err, "APPLICATIONS_PAGE_SIZE")
	})

	t.Run("toast duration", func(t *testing.T) {
		t.Setenv("TOAST_DURATION", "0s")
		_, err := Load(nil)
		require.ErrorContains(t, err, "TOAST_DURATION")
	})
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
