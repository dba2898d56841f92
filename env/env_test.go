package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvFile(t *testing.T) {
	envs, err := ParseEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, envs)

	fn := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(fn, []byte("RESOURCE_API_URL=https://dummyjson.com\n# comment\nRESOURCE_STALE_TIME='30s'\n"), 0600))
	envs, err = ParseEnvFile(fn)
	require.NoError(t, err)
	assert.Equal(t, []EnvLine{
		{Key: "RESOURCE_API_URL", Val: "https://dummyjson.com"},
		{Key: "RESOURCE_STALE_TIME", Val: "30s"},
	}, envs)
}

func TestParseEnvBufferInterpolation(t *testing.T) {
	t.Setenv("RC_TEST_HOST", "api.example.com")
	buf := []byte(`
HOST=${env:RC_TEST_HOST}
export RESOURCE_API_URL="https://${HOST}/v1"
LEVEL=${MISSING:-info}
KEEP=${UNKNOWN}
LATE=${DEFINED_LATER}
DEFINED_LATER=yes
`)
	envs, err := ParseEnvBuffer(buf)
	require.NoError(t, err)
	m := ToMap(envs)
	assert.Equal(t, "api.example.com", m["HOST"])
	assert.Equal(t, "https://api.example.com/v1", m["RESOURCE_API_URL"])
	assert.Equal(t, "info", m["LEVEL"])
	assert.Equal(t, "${UNKNOWN}", m["KEEP"])
	assert.Equal(t, "yes", m["LATE"])
}

func TestProcessEnvLine(t *testing.T) {
	assert.Equal(t, EnvLine{Key: "A", Val: "b=c"}, ProcessEnvLine("A=b=c"))
	assert.Equal(t, EnvLine{Key: "EMPTY", Val: ""}, ProcessEnvLine("EMPTY="))
	assert.Equal(t, EnvLine{Key: "NOVALUE"}, ProcessEnvLine("NOVALUE"))
	assert.Equal(t, EnvLine{Key: "Q", Val: "quoted value"}, ProcessEnvLine(`Q="quoted value"`))
}

func TestDequote(t *testing.T) {
	assert.Equal(t, "x", dequote(`"x"`))
	assert.Equal(t, "x", dequote(`'x'`))
	assert.Equal(t, `"x`, dequote(`"x`))
	assert.Equal(t, `"`, dequote(`"`))
}

func TestLookup(t *testing.T) {
	file := map[string]string{"RC_FROM_FILE": "file", "RC_BOTH": "file"}
	t.Setenv("RC_BOTH", "process")

	val, ok := Lookup(file, "RC_FROM_FILE")
	assert.True(t, ok)
	assert.Equal(t, "file", val)

	val, ok = Lookup(file, "RC_BOTH")
	assert.True(t, ok)
	assert.Equal(t, "process", val)

	_, ok = Lookup(file, "RC_NOWHERE")
	assert.False(t, ok)
}

func TestFlagOrEnv(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("api-url", "", "")

	assert.Equal(t, "default", FlagOrEnv(cmd, "api-url", "RC_TEST_URL", "default"))

	t.Setenv("RC_TEST_URL", "from-env")
	assert.Equal(t, "from-env", FlagOrEnv(cmd, "api-url", "RC_TEST_URL", "default"))

	require.NoError(t, cmd.Flags().Set("api-url", "from-flag"))
	assert.Equal(t, "from-flag", FlagOrEnv(cmd, "api-url", "RC_TEST_URL", "default"))
}
