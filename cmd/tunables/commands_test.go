package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tunables "github.com/Flagsmith/tunables-go"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlatformCommand(t *testing.T) {
	out, err := runCmd(t, "platform", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")

	require.NoError(t, err)
	assert.Contains(t, out, "platform: ios\n")
	assert.Contains(t, out, "mobile:   true\n")
	assert.Contains(t, out, "android:  false\n")
}

func TestPlatformCommandRequiresArgument(t *testing.T) {
	_, err := runCmd(t, "platform")

	assert.Error(t, err)
}

func TestFlagsCommandForBackend(t *testing.T) {
	out, err := runCmd(t, "flags", "--backend", "wasm")

	require.NoError(t, err)
	assert.Equal(t, "CHECK_COMPUTATION_FOR_ERRORS [true,false]\n"+
		"KEEP_INTERMEDIATE_TENSORS [true,false]\n"+
		"WASM_HAS_SIMD_SUPPORT [true,false]\n"+
		"WASM_HAS_MULTITHREAD_SUPPORT [true,false]\n", out)
}

func TestFlagsCommandWithRegistryFile(t *testing.T) {
	out, err := runCmd(t, "flags", "--registry", "../../fixtures/registry.yaml")

	require.NoError(t, err)
	assert.Equal(t, "WEBGL_FLUSH_THRESHOLD [-1,0,0.5,1]\n"+
		"WEBGL_PACK [true,false]\n"+
		"WEBGL_VERSION [1,2]\n", out)
}

func TestApplyCommand(t *testing.T) {
	out, err := runCmd(t, "apply", "WEBGL_VERSION=2", "WEBGL_PACK=false", "--backend", "tfjs-webgl")

	require.NoError(t, err)
	assert.Equal(t, "WEBGL_PACK=false\nWEBGL_VERSION=2\nbackend: webgl\n", out)
}

func TestApplyCommandOtherRuntime(t *testing.T) {
	out, err := runCmd(t, "apply", "WEBGL_PACK=true", "--backend", "tflite-cpu")

	require.NoError(t, err)
	assert.Equal(t, "WEBGL_PACK=true\n", out)
}

func TestApplyCommandRejectsOutOfRangeValue(t *testing.T) {
	_, err := runCmd(t, "apply", "WEBGL_VERSION=3")

	var outOfRange *tunables.ValueOutOfRangeError
	assert.ErrorAs(t, err, &outOfRange)
}

func TestApplyCommandRejectsUnknownBackend(t *testing.T) {
	_, err := runCmd(t, "apply", "WEBGL_PACK=true", "--backend", "tfjs-metal")

	assert.EqualError(t, err, "metal backend is not registered.")
}

func TestParseAssignments(t *testing.T) {
	config, err := parseAssignments([]string{"A=true", "B=0.25", "C=high", "D="})

	require.NoError(t, err)
	assert.Equal(t, tunables.FlagConfig{"A": true, "B": 0.25, "C": "high", "D": ""}, config)

	_, err = parseAssignments([]string{"=1"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"NOEQUALS"})
	assert.Error(t, err)
}
