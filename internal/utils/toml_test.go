package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTomlEncode(t *testing.T) {
	tests := []struct {
		provided interface{}
		expected string
	}{
		{
			provided: map[string]interface{}{
				"rpc": map[string]interface{}{
					"enabled": true,
					"laddr":   "tcp://127.0.0.1:26657",
				},
			},
			expected: "[rpc]\n  enabled = true\n  laddr = \"tcp://127.0.0.1:26657\"\n",
		},
	}

	for _, test := range tests {
		result, err := TomlEncode(test.provided)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, result)
	}
}

func TestTomlDecode(t *testing.T) {
	tests := []struct {
		provided string
		expected interface{}
	}{
		{
			provided: "[rpc]\n  enabled = true\n  laddr = \"tcp://127.0.0.1:26657\"\n",
			expected: map[string]interface{}{
				"rpc": map[string]interface{}{
					"enabled": true,
					"laddr":   "tcp://127.0.0.1:26657",
				},
			},
		},
	}

	for _, test := range tests {
		result, err := TomlDecode(test.provided)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, result)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		provided interface{}
		patch    interface{}
		expected interface{}
	}{
		{
			provided: map[string]interface{}{
				"rpc": map[string]interface{}{
					"enabled": false,
					"laddr":   "tcp://127.0.0.1:26657",
				},
			},
			patch: map[string]interface{}{
				"rpc": map[string]interface{}{
					"enabled": true,
					"laddr":   "tcp://0.0.0.0:26657",
				},
			},
			expected: map[string]interface{}{
				"rpc": map[string]interface{}{
					"enabled": true,
					"laddr":   "tcp://0.0.0.0:26657",
				},
			},
		},
		{
			provided: map[string]interface{}{
				"moniker": "node-0",
				"rpc":     map[string]interface{}{"laddr": "tcp://127.0.0.1:26657"},
			},
			patch: map[string]interface{}{
				"rpc": map[string]interface{}{"cors_allowed_origins": []interface{}{"*"}},
				"p2p": map[string]interface{}{"pex": false},
			},
			expected: map[string]interface{}{
				"moniker": "node-0",
				"rpc": map[string]interface{}{
					"laddr":                "tcp://127.0.0.1:26657",
					"cors_allowed_origins": []interface{}{"*"},
				},
				"p2p": map[string]interface{}{"pex": false},
			},
		},
		{
			provided: nil,
			patch:    map[string]interface{}{"pruning": "nothing"},
			expected: map[string]interface{}{"pruning": "nothing"},
		},
	}

	for _, test := range tests {
		result, err := Merge(test.provided, test.patch)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, result)
	}
}

func TestMergeTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("moniker = \"node-0\"\n\n[rpc]\n  laddr = \"tcp://127.0.0.1:26657\"\n"), 0o644))

	err := MergeTomlFile(path, map[string]interface{}{
		"rpc": map[string]interface{}{"laddr": "tcp://0.0.0.0:26657"},
		"p2p": map[string]interface{}{"pex": false},
	})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := TomlDecode(string(b))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"moniker": "node-0",
		"rpc":     map[string]interface{}{"laddr": "tcp://0.0.0.0:26657"},
		"p2p":     map[string]interface{}{"pex": false},
	}, decoded)
}

func TestMergeTomlFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")

	require.NoError(t, MergeTomlFile(path, map[string]interface{}{"pruning": "nothing"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pruning = \"nothing\"\n", string(b))
}

func TestMergeTomlFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	assert.Error(t, MergeTomlFile(path, map[string]interface{}{"a": 1}))
}

func TestMerge_TypeMismatch(t *testing.T) {
	_, err := Merge(
		map[string]interface{}{"rpc": map[string]interface{}{"laddr": "x"}},
		map[string]interface{}{"rpc": "tcp://0.0.0.0:26657"},
	)
	assert.Error(t, err)
}
