package cometbft

import (
	"os"

	"emperror.dev/errors"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/libs/json"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
)

const (
	NodeKeyFile      = "node_key.json"
	PrivValidatorKey = "priv_validator_key.json"
)

// PrivKey mirrors the on-disk priv_validator_key.json document.
type PrivKey struct {
	Address string `json:"address"`
	PubKey  struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"pub_key"`
	PrivKey struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"priv_key"`
}

// GenerateNodeKey returns a fresh p2p node key document and its node ID.
func GenerateNodeKey() (string, []byte, error) {
	nodeKey := &p2p.NodeKey{
		PrivKey: ed25519.GenPrivKey(),
	}
	b, err := json.Marshal(nodeKey)
	if err != nil {
		return "", nil, err
	}
	return string(p2p.PubKeyToID(nodeKey.PubKey())), b, nil
}

func GetNodeID(key []byte) (string, error) {
	var nodeKey p2p.NodeKey
	if err := json.Unmarshal(key, &nodeKey); err != nil {
		return "", err
	}
	return string(p2p.PubKeyToID(nodeKey.PubKey())), nil
}

func GeneratePrivKey() ([]byte, error) {
	privKey := ed25519.GenPrivKey()
	key := privval.FilePVKey{
		Address: privKey.PubKey().Address(),
		PubKey:  privKey.PubKey(),
		PrivKey: privKey,
	}
	return json.Marshal(key)
}

func LoadPrivKey(b []byte) (*PrivKey, error) {
	var key PrivKey
	if err := json.Unmarshal(b, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// WriteKeyFile writes a key document readable by its owner only. Existing
// keys are never overwritten.
func WriteKeyFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
