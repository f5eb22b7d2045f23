package address

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a mapping with name, address and default keys,
// or a plain string such as "Alice <alice@example.com>".
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		l := Parse(value.Value)
		if len(l) != 1 {
			return fmt.Errorf("line %d: expected one address, found %d in %q", value.Line, len(l), value.Value)
		}
		*e = l[0]
		return nil
	}

	type plain Entry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}
