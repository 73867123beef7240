package rules

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// rulesKey is the top-level YAML key holding the rule list.
const rulesKey = "rules"

// LoadFile reads a YAML rule set of the form
//
//	rules:
//	  - id: differential
//	    name: Differential
//	    all:
//	      - {field: ownership, op: lt, value: 10}
//
// and validates it. Errors wrap ErrLoadRules or ErrInvalidRule.
func LoadFile(path string) ([]Rule, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoadRules, path, err)
	}
	if !k.Exists(rulesKey) {
		return nil, fmt.Errorf("%w: %s: missing %q key", ErrLoadRules, path, rulesKey)
	}

	var rs []Rule
	if err := k.UnmarshalWithConf(rulesKey, &rs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadRules, path, err)
	}
	if err := Validate(rs); err != nil {
		return nil, err
	}
	return rs, nil
}
