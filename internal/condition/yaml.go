package condition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tree wraps a root Node so condition trees can be embedded in YAML
// documents (scenario files, CLI inputs).
type Tree struct {
	Root Node
}

// yamlCondition is the YAML shape of a leaf.
type yamlCondition struct {
	Field    string `yaml:"field"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Tree) UnmarshalYAML(value *yaml.Node) error {
	root, err := decodeYAMLNode(value)
	if err != nil {
		return err
	}
	t.Root = root
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Tree) MarshalYAML() (interface{}, error) {
	return encodeYAMLNode(t.Root)
}

// ParseYAML decodes a condition tree from YAML bytes.
func ParseYAML(data []byte) (Node, error) {
	var t Tree
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return t.Root, nil
}

func decodeYAMLNode(n *yaml.Node) (Node, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, fmt.Errorf("line %d: condition node must be a mapping with exactly one key", n.Line)
	}

	key := n.Content[0].Value
	body := n.Content[1]

	if key == "condition" {
		var yc yamlCondition
		if err := body.Decode(&yc); err != nil {
			return nil, fmt.Errorf("line %d: condition: %w", body.Line, err)
		}
		return Condition{Field: yc.Field, Operator: operatorOrRaw(yc.Operator), Value: yc.Value}, nil
	}

	op := Combinator(key)
	if !op.Valid() {
		return nil, fmt.Errorf("line %d: unknown node %q", n.Line, key)
	}
	if body.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must hold a list of nodes", body.Line, key)
	}

	children := make([]Node, 0, len(body.Content))
	for _, item := range body.Content {
		child, err := decodeYAMLNode(item)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return Group{Op: op, Children: children}, nil
}

func encodeYAMLNode(n Node) (interface{}, error) {
	switch node := n.(type) {
	case nil:
		return nil, nil
	case Condition:
		return map[string]yamlCondition{"condition": {
			Field:    node.Field,
			Operator: string(node.Operator),
			Value:    node.Value,
		}}, nil
	case *Condition:
		return encodeYAMLNode(*node)
	case Group:
		children := make([]interface{}, 0, len(node.Children))
		for _, child := range node.Children {
			enc, err := encodeYAMLNode(child)
			if err != nil {
				return nil, err
			}
			children = append(children, enc)
		}
		return map[string]interface{}{string(node.Op): children}, nil
	case *Group:
		return encodeYAMLNode(*node)
	default:
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
}
