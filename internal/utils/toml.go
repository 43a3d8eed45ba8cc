package utils

import (
	"bytes"
	"os"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/RaveNoX/go-jsonmerge"
)

func TomlDecode(data string) (interface{}, error) {
	var out interface{}
	_, err := toml.Decode(data, &out)
	return out, err
}

func TomlEncode(in interface{}) (string, error) {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Merge deep-merges patch into data. Keys in patch win, and keys or tables
// that only exist in patch are added.
func Merge(data, patch interface{}) (interface{}, error) {
	out, info := jsonmerge.Merge(withMissing(data, patch), patch)
	if len(info.Errors) > 0 {
		return nil, info.Errors[0]
	}
	return out, nil
}

// MergeTomlFile applies patch to the TOML document at path. A missing file is
// treated as an empty document and created.
func MergeTomlFile(path string, patch map[string]interface{}) error {
	var current interface{} = map[string]interface{}{}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		if current, err = TomlDecode(string(b)); err != nil {
			return errors.Wrapf(err, "decoding %s", path)
		}
	}

	merged, err := Merge(current, patch)
	if err != nil {
		return errors.Wrapf(err, "merging %s", path)
	}

	out, err := TomlEncode(merged)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// withMissing returns a copy of data holding every key of patch that data
// lacks. jsonmerge only replaces existing keys.
func withMissing(data, patch interface{}) interface{} {
	patchObj, ok := patch.(map[string]interface{})
	if !ok {
		return data
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	dataObj, ok := data.(map[string]interface{})
	if !ok {
		return data
	}

	out := make(map[string]interface{}, len(dataObj)+len(patchObj))
	for k, v := range dataObj {
		out[k] = v
	}
	for k, pv := range patchObj {
		if dv, exists := out[k]; exists {
			out[k] = withMissing(dv, pv)
		} else {
			out[k] = pv
		}
	}
	return out
}
