package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "does-not-exist.env")))
}

func TestLoadEnv_LoadsValues(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AGENTCHAIN_TEST_KEY=from-file\n"), 0644))
	t.Setenv("AGENTCHAIN_TEST_KEY", "") // ensure restored after test
	os.Unsetenv("AGENTCHAIN_TEST_KEY")

	require.NoError(t, LoadEnv(envFile))
	assert.Equal(t, "from-file", os.Getenv("AGENTCHAIN_TEST_KEY"))
}

func TestGetString(t *testing.T) {
	t.Setenv("AGENTCHAIN_STRING", "value")
	assert.Equal(t, "value", GetString("AGENTCHAIN_STRING", "fallback"))
	assert.Equal(t, "fallback", GetString("AGENTCHAIN_STRING_UNSET", "fallback"))
}

func TestGetBool(t *testing.T) {
	t.Setenv("AGENTCHAIN_BOOL", "true")
	assert.True(t, GetBool("AGENTCHAIN_BOOL", false))

	t.Setenv("AGENTCHAIN_BOOL", "not-a-bool")
	assert.True(t, GetBool("AGENTCHAIN_BOOL", true))

	assert.False(t, GetBool("AGENTCHAIN_BOOL_UNSET", false))
}

func TestGetInt(t *testing.T) {
	t.Setenv("AGENTCHAIN_INT", "42")
	assert.Equal(t, 42, GetInt("AGENTCHAIN_INT", 7))

	t.Setenv("AGENTCHAIN_INT", "forty-two")
	assert.Equal(t, 7, GetInt("AGENTCHAIN_INT", 7))
}

func TestRequire(t *testing.T) {
	t.Setenv("AGENTCHAIN_REQUIRED", "present")
	v, err := Require("AGENTCHAIN_REQUIRED")
	require.NoError(t, err)
	assert.Equal(t, "present", v)

	_, err = Require("AGENTCHAIN_REQUIRED_UNSET")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENTCHAIN_REQUIRED_UNSET")
}
