package entities

import (
	"gopkg.in/yaml.v3"
)

const ignoreKey = "ignore"

// IgnoreRules maps a dependency name to the version ranges excluded from
// the alignment check.
type IgnoreRules = OrderedMap[[]string]

// NewIgnoreRules creates an empty IgnoreRules collection.
func NewIgnoreRules() *IgnoreRules {
	return NewOrderedMap[[]string]()
}

// DepalignConfig is the content of the .depalignrc file. Keys other than
// "ignore" are not interpreted but survive a rewrite.
type DepalignConfig struct {
	Ignore *IgnoreRules
	raw    *OrderedMap[any]
}

// NewDepalignConfig creates a config with no ignore rules.
func NewDepalignConfig() *DepalignConfig {
	return &DepalignConfig{Ignore: NewIgnoreRules(), raw: NewOrderedMap[any]()}
}

// WithIgnore returns a copy of the config whose ignore rules are replaced.
func (c *DepalignConfig) WithIgnore(rules *IgnoreRules) *DepalignConfig {
	raw := NewOrderedMap[any]()
	c.raw.Each(func(k string, v any) { raw.Set(k, v) })
	return &DepalignConfig{Ignore: rules, raw: raw}
}

func (c *DepalignConfig) document() *OrderedMap[any] {
	doc := NewOrderedMap[any]()
	c.raw.Each(func(k string, v any) { doc.Set(k, v) })
	doc.Set(ignoreKey, c.Ignore)
	return doc
}

// MarshalJSON writes the config with "ignore" in its original position.
func (c *DepalignConfig) MarshalJSON() ([]byte, error) {
	return c.document().MarshalJSON()
}

// MarshalYAML writes the config with "ignore" in its original position.
func (c *DepalignConfig) MarshalYAML() (interface{}, error) {
	return c.document().MarshalYAML()
}

// UnmarshalYAML reads a JSON or YAML config document.
func (c *DepalignConfig) UnmarshalYAML(node *yaml.Node) error {
	raw := NewOrderedMap[any]()
	if err := raw.UnmarshalYAML(node); err != nil {
		return err
	}

	rules := NewIgnoreRules()
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == ignoreKey {
			if err := rules.UnmarshalYAML(node.Content[i+1]); err != nil {
				return err
			}
		}
	}

	c.raw = raw
	c.Ignore = rules
	return nil
}
