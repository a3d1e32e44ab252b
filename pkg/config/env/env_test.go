package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("loads file without overriding environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("QADO_TEST_A=from-file\nQADO_TEST_B=from-file\n"), 0644))

		t.Setenv("ENV_PATH", path)
		t.Setenv("QADO_TEST_A", "from-env")
		t.Setenv("QADO_TEST_B", "")
		os.Unsetenv("QADO_TEST_B")

		require.NoError(t, LoadDotEnv("", "unused"))
		assert.Equal(t, "from-env", os.Getenv("QADO_TEST_A"))
		assert.Equal(t, "from-file", os.Getenv("QADO_TEST_B"))
		os.Unsetenv("QADO_TEST_B")
	})

	t.Run("missing file is ignored outside local", func(t *testing.T) {
		t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "absent.env"))
		assert.NoError(t, LoadDotEnv("prod", "unused"))
		assert.NoError(t, LoadDotEnv("", "unused"))
	})

	t.Run("missing file fails in local", func(t *testing.T) {
		t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, LoadDotEnv("local", "unused"))
	})

	t.Run("falls back to default path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("QADO_TEST_C=default\n"), 0644))
		t.Setenv("ENV_PATH", "")
		t.Setenv("QADO_TEST_C", "")
		os.Unsetenv("QADO_TEST_C")

		require.NoError(t, LoadDotEnv("local", path))
		assert.Equal(t, "default", os.Getenv("QADO_TEST_C"))
		os.Unsetenv("QADO_TEST_C")
	})
}

func TestVars(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		t.Setenv("QADO_TEST_VAR", "  ")

		assert.Equal(t, "x", String("QADO_TEST_VAR", "x"))
		n, err := Int("QADO_TEST_VAR", 4)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		f, err := Float("QADO_TEST_VAR", 1.5)
		require.NoError(t, err)
		assert.Equal(t, 1.5, f)
		b, err := Bool("QADO_TEST_VAR", true)
		require.NoError(t, err)
		assert.True(t, b)
		d, err := Duration("QADO_TEST_VAR", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, d)
	})

	t.Run("parses values", func(t *testing.T) {
		t.Setenv("QADO_TEST_VAR", "12")

		n, err := Int("QADO_TEST_VAR", 0)
		require.NoError(t, err)
		assert.Equal(t, 12, n)
		d, err := Duration("QADO_TEST_VAR", 0)
		require.NoError(t, err)
		assert.Equal(t, 12*time.Second, d)

		t.Setenv("QADO_TEST_VAR", "1m30s")
		d, err = Duration("QADO_TEST_VAR", 0)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, d)

		t.Setenv("QADO_TEST_VAR", "true")
		b, err := Bool("QADO_TEST_VAR", false)
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Setenv("QADO_TEST_VAR", "lots")

		_, err := Int("QADO_TEST_VAR", 0)
		assert.ErrorContains(t, err, "QADO_TEST_VAR")
		_, err = Float("QADO_TEST_VAR", 0)
		assert.Error(t, err)
		_, err = Bool("QADO_TEST_VAR", false)
		assert.Error(t, err)
		_, err = Duration("QADO_TEST_VAR", 0)
		assert.Error(t, err)
	})
}
