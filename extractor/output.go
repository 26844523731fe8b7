package main

import (
	"encoding/json"
	"fmt"
	"io"

	confreader "github.com/next-exp/offline_conf_reader/pkg"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// resultNode builds a YAML mapping with the session first and the
// parameters in declaration order.
func resultNode(e *confreader.Extractor) (*yaml.Node, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value any) error {
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return fmt.Errorf("error encoding %s: %w", key, err)
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		root.Content = append(root.Content, keyNode, &valueNode)
		return nil
	}

	if err := add("oks_file_path", e.OKSFilePath); err != nil {
		return nil, err
	}
	if err := add("session_name", e.SessionName); err != nil {
		return nil, err
	}
	for _, variable := range e.Variables() {
		value, _ := e.Lookup(variable.Name)
		if err := add(variable.Name, value); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func resultMap(e *confreader.Extractor) map[string]any {
	result := map[string]any{
		"oks_file_path": e.OKSFilePath,
		"session_name":  e.SessionName,
	}
	for _, variable := range e.Variables() {
		value, _ := e.Lookup(variable.Name)
		result[variable.Name] = value
	}
	return result
}

func writeResult(w io.Writer, e *confreader.Extractor, format string) error {
	switch format {
	case formatYAML:
		node, err := resultNode(e)
		if err != nil {
			return err
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(node); err != nil {
			return fmt.Errorf("error writing YAML: %w", err)
		}
		return encoder.Close()
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resultMap(e)); err != nil {
			return fmt.Errorf("error writing JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("invalid output format %q", format)
}

func writeVariables(w io.Writer, variables []confreader.Variable) error {
	for _, variable := range variables {
		status := "extracted"
		if !variable.Implemented {
			status = "not implemented"
		}
		if _, err := fmt.Fprintf(w, "%-22s %-24s %s\n", variable.Name, variable.Type, status); err != nil {
			return err
		}
	}
	return nil
}
