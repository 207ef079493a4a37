// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes entries to w as a YAML document.
func ExportYAML(w io.Writer, entries []Entry) error {
	doc := struct {
		Refiles []Entry `yaml:"refiles"`
	}{Refiles: entries}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling journal export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing journal export: %w", err)
	}
	return nil
}
