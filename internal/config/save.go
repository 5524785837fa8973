package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys lists the dotted settings accepted by SetValue.
var Keys = []string{
	"window.multiline",
	"window.line_radius",
	"window.byte_radius",
	"resolver.reserved_words",
	"ui.show_status_bar",
	"ui.watch_file",
	"tracing.enabled",
	"tracing.exporter",
	"tracing.file_path",
	"tracing.otlp_endpoint",
	"tracing.sample_rate",
	"tracing.service_name",
}

// SetValue sets a dotted key (e.g. "window.line_radius") in the config file.
// value is parsed as YAML, so "20" is a number and "[and, or]" a list.
// Comments and formatting elsewhere in the file are preserved by editing a
// yaml.Node tree.
func SetValue(configPath, key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	var valueDoc yaml.Node
	if err := yaml.Unmarshal([]byte(value), &valueDoc); err != nil {
		return fmt.Errorf("parsing value for %s: %w", key, err)
	}
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ""}
	if valueDoc.Kind == yaml.DocumentNode && len(valueDoc.Content) > 0 {
		valueNode = valueDoc.Content[0]
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	parts := strings.Split(key, ".")
	node := root
	for _, part := range parts[:len(parts)-1] {
		child := lookup(node, part)
		if child == nil || child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode}
			put(node, part, child)
		}
		node = child
	}
	put(node, parts[len(parts)-1], valueNode)

	return writeAtomic(configPath, &doc)
}

// lookup returns the value node for key in a mapping node.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// put replaces or appends key in a mapping node. A replaced value keeps the
// line comment of the node it replaces.
func put(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			if value.LineComment == "" {
				value.LineComment = m.Content[i+1].LineComment
			}
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

// writeAtomic encodes doc to a temp file and renames it over configPath.
func writeAtomic(configPath string, doc *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".argnoun.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
