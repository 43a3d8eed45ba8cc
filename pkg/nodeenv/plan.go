package nodeenv

import "strings"

const (
	BinDir     = "bin"
	ConfigDir  = "config"
	DataDir    = "data"
	LogsDir    = "logs"
	StorageDir = "storage"

	ConfigFile = "config.toml"

	homePlaceholder = "{home}"
)

var layout = []string{BinDir, ConfigDir, DataDir, LogsDir, StorageDir}

// Plan describes how a node home is bootstrapped.
type Plan struct {
	// BinarySource is the directory holding prebuilt binaries.
	BinarySource string `toml:"binary_source"`
	// Binaries are copied from BinarySource into bin/.
	Binaries []string      `toml:"binaries"`
	Storage  []StorageFile `toml:"storage"`
	// Init commands run in order after binaries and storage are in place.
	Init []InitCommand `toml:"init"`
	// Validator also generates a priv_validator_key.json.
	Validator bool `toml:"validator"`
	// ConfigOverrides is deep-merged into config/config.toml.
	ConfigOverrides map[string]interface{} `toml:"config_overrides"`
}

// StorageFile is a file preallocated under storage/.
type StorageFile struct {
	Name string `toml:"name"`
	// Size is a human readable size such as "512MB" or "4GB".
	Size string `toml:"size"`
}

// InitCommand is an external binary run with fixed arguments. A bare binary
// name is looked up in bin/ first and then in PATH. "{home}" in arguments is
// replaced by the node home.
type InitCommand struct {
	Binary string   `toml:"binary"`
	Args   []string `toml:"args"`
}

func (c InitCommand) expandArgs(home string) []string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = strings.ReplaceAll(a, homePlaceholder, home)
	}
	return args
}
