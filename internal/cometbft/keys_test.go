package cometbft

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNodeKey(t *testing.T) {
	id, b, err := GenerateNodeKey()
	require.NoError(t, err)
	assert.Len(t, id, 40)

	loaded, err := GetNodeID(b)
	require.NoError(t, err)
	assert.Equal(t, id, loaded)
}

func TestGetNodeID_Invalid(t *testing.T) {
	_, err := GetNodeID([]byte("{not json"))
	assert.Error(t, err)
}

func TestGeneratePrivKey(t *testing.T) {
	b, err := GeneratePrivKey()
	require.NoError(t, err)

	key, err := LoadPrivKey(b)
	require.NoError(t, err)
	assert.Len(t, key.Address, 40)
	assert.Equal(t, "tendermint/PubKeyEd25519", key.PubKey.Type)
	assert.Equal(t, "tendermint/PrivKeyEd25519", key.PrivKey.Type)
	assert.NotEmpty(t, key.PrivKey.Value)
}

func TestWriteKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), NodeKeyFile)

	require.NoError(t, WriteKeyFile(path, []byte("first")))
	assert.Error(t, WriteKeyFile(path, []byte("second")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
