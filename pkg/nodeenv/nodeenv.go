// Package nodeenv bootstraps and removes the local home directory of a chain
// node.
package nodeenv

import (
	"path/filepath"

	"emperror.dev/errors"
)

const (
	ErrAlreadyInitialized = errors.Sentinel("node home already initialized")
	ErrAborted            = errors.Sentinel("aborted by operator")
)

type Env struct {
	home string
	cfg  *Options
}

func New(home string, opts ...Option) (*Env, error) {
	if home == "" {
		return nil, errors.New("node home is required")
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return nil, err
	}
	if abs == filepath.Dir(abs) {
		return nil, errors.Errorf("refusing to use %s as node home", abs)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Env{home: abs, cfg: options}, nil
}

func (e *Env) Home() string {
	return e.home
}

// Path joins elem to the node home.
func (e *Env) Path(elem ...string) string {
	return filepath.Join(append([]string{e.home}, elem...)...)
}
