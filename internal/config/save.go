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

// Keys lists every dotted key accepted by SetValue.
var Keys = []string{
	"output.format",
	"output.spans",
	"output.max_text_width",
	"output.color",
	"bench.iterations",
	"bench.db_path",
	"watch.debounce",
	"watch.cache_ttl",
	"log.debug",
	"log.file",
	"log.level",
	"tracing.enabled",
	"tracing.exporter",
	"tracing.file_path",
	"tracing.otlp_endpoint",
	"tracing.sample_rate",
}

// SetValue sets a single dotted key (e.g. "output.format") in the config
// file and saves it. Comments and formatting elsewhere in the file are
// preserved by editing the yaml.Node tree.
func SetValue(configPath, key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	node := doc.Content[0]
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child, err := mappingChild(node, part)
		if err != nil {
			return err
		}
		node = child
	}
	setScalar(node, parts[len(parts)-1], value)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// mappingChild returns the mapping stored under key, creating it if absent.
func mappingChild(m *yaml.Node, key string) (*yaml.Node, error) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		child := m.Content[i+1]
		if child.Kind == yaml.ScalarNode && child.Tag == "!!null" {
			child.Kind = yaml.MappingNode
			child.Tag = ""
			child.Value = ""
		}
		if child.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("config key %q is not a section", key)
		}
		return child, nil
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
	return child, nil
}

// setScalar replaces or appends key: value in mapping m, keeping any line
// comment on an existing value.
func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			old := m.Content[i+1]
			m.Content[i+1] = &yaml.Node{
				Kind:        yaml.ScalarNode,
				Value:       value,
				LineComment: old.LineComment,
			}
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value},
	)
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".clothespin.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
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
