package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pyhub-apps/pdffill-golang"
	"gopkg.in/yaml.v2"
)

// loadValues reads a substitution table from a YAML or JSON file
func loadValues(path string) (pdffill.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read values file %s", path)
	}
	return parseValues(data)
}

// parseValues decodes a flat mapping of identifiers to values. JSON
// input is accepted since it parses as YAML. Scalars are formatted as
// text; nested values are rejected.
func parseValues(data []byte) (pdffill.Table, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse values")
	}

	table := pdffill.Table{}
	for key, v := range raw {
		switch val := v.(type) {
		case nil:
			table[key] = ""
		case string:
			table[key] = val
		case map[interface{}]interface{}, []interface{}:
			return nil, errors.Errorf("value of %q is not a scalar", key)
		default:
			table[key] = fmt.Sprint(val)
		}
	}
	return table, nil
}

// setFlags collects repeated -set key=value flags
type setFlags map[string]string

func (s setFlags) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + s[k]
	}
	return strings.Join(pairs, ",")
}

func (s setFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return errors.Errorf("expected key=value, got %q", v)
	}
	s[key] = value
	return nil
}
