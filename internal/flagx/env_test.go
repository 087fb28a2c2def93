package flagx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotenvFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "x:1", "-env", "/etc/studydeck.env"}
	assert.Equal(t, "/etc/studydeck.env", DotenvFlags())

	os.Args = []string{"testbin", "-a", "x:1"}
	assert.Empty(t, DotenvFlags())
}

func TestLoadDotenv_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STUDYDECK_TEST_ADDR=10.0.0.1:50051\nSTUDYDECK_TEST_KEEP=file\n"), 0o600))

	t.Setenv("STUDYDECK_TEST_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("STUDYDECK_TEST_ADDR") })

	require.NoError(t, LoadDotenv(path))
	assert.Equal(t, "10.0.0.1:50051", os.Getenv("STUDYDECK_TEST_ADDR"))
	assert.Equal(t, "process", os.Getenv("STUDYDECK_TEST_KEEP"), "existing variables win")
}

func TestLoadDotenv_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })

	require.NoError(t, LoadDotenv(""), "missing default .env is fine")
	require.Error(t, LoadDotenv(filepath.Join(dir, "nope.env")))
}

func TestEnv_Readers(t *testing.T) {
	t.Setenv("SD_ADDR", "host:1")
	t.Setenv("SD_THRESHOLD", "5")
	t.Setenv("SD_FLUSH", "250ms")
	t.Setenv("SD_BAD_INT", "five")
	t.Setenv("SD_EMPTY", "")

	env := NewEnv("SD_")

	addr := "default"
	env.String("ADDR", &addr)
	assert.Equal(t, "host:1", addr)

	empty := "keep"
	env.String("EMPTY", &empty)
	assert.Equal(t, "keep", empty)

	n := 3
	require.NoError(t, env.Int("THRESHOLD", &n))
	assert.Equal(t, 5, n)
	require.Error(t, env.Int("BAD_INT", &n))
	assert.Equal(t, 5, n)

	d := time.Second
	require.NoError(t, env.Duration("FLUSH", &d))
	assert.Equal(t, 250*time.Millisecond, d)
	require.NoError(t, env.Duration("MISSING", &d))
	assert.Equal(t, 250*time.Millisecond, d)
}
