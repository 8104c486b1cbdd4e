package server_lists

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Overrides is the on-disk form of extra routing data. Servers entries replace
// or extend TLDToWhoisServer, MultiLabelSuffixes are appended to the shipped
// set and Exceptions are checked before the shipped exceptions.
type Overrides struct {
	Servers            map[string]string `json:"servers" yaml:"servers"`
	MultiLabelSuffixes []string          `json:"multiLabelSuffixes" yaml:"multiLabelSuffixes"`
	Exceptions         []Exception       `json:"exceptions" yaml:"exceptions"`
}

// LoadTable builds the default Table and merges the overrides stored at path.
// An empty path returns the default Table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open server list file")
	}
	defer f.Close()

	overrides, err := decodeOverrides(f, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode server list file %s", path)
	}
	return mergeOverrides(overrides), nil
}

func decodeOverrides(r io.Reader, ext string) (Overrides, error) {
	var o Overrides
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&o); err != nil && !errors.Is(err, io.EOF) {
			return o, err
		}
	case ".json":
		if err := json.NewDecoder(r).Decode(&o); err != nil {
			return o, err
		}
	default:
		return o, errors.Errorf("unsupported server list format: %s", ext)
	}
	return o, nil
}

func mergeOverrides(o Overrides) *Table {
	servers := make(map[string]string, len(TLDToWhoisServer)+len(o.Servers))
	for k, v := range TLDToWhoisServer {
		servers[k] = v
	}
	for k, v := range o.Servers {
		servers[k] = v
	}

	multiLabel := append(append([]string{}, MultiLabelSuffixes...), o.MultiLabelSuffixes...)
	exceptions := append(append([]Exception{}, o.Exceptions...), Exceptions...)

	return NewTable(servers, multiLabel, exceptions)
}
