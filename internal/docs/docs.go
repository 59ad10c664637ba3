// Package docs exports the command reference of an interpreter as markdown or YAML.
package docs

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"cmdshell/internal/output"
	"cmdshell/internal/version"
	"cmdshell/pkg/registry"
	"cmdshell/pkg/shelltypes"
)

// Supported formats.
const (
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Reference is the exported command reference.
type Reference struct {
	Version  string                `yaml:"version"`
	Commands []shelltypes.HelpInfo `yaml:"commands"`
}

// Build collects help information for every command in registration order.
func Build(view registry.View) Reference {
	ref := Reference{Version: version.GetVersion()}
	for d := range view.List() {
		ref.Commands = append(ref.Commands, d.HelpInfo())
	}
	return ref
}

// YAML encodes the reference with two-space indentation.
func YAML(ref Reference) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(ref); err != nil {
		return nil, fmt.Errorf("failed to encode reference: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode reference: %w", err)
	}
	return []byte(b.String()), nil
}

// ParseYAML decodes a reference produced by YAML.
func ParseYAML(data []byte) (Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return Reference{}, fmt.Errorf("failed to parse reference: %w", err)
	}
	return ref, nil
}

// Markdown renders the reference as a markdown document.
func Markdown(ref Reference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Command reference\n\ncmdshell v%s\n", ref.Version)

	for _, info := range ref.Commands {
		fmt.Fprintf(&b, "\n## %s\n\n", info.Command)
		if info.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", info.Description)
		}
		fmt.Fprintf(&b, "```\n%s\n```\n", info.Usage)
		if len(info.Aliases) > 0 {
			fmt.Fprintf(&b, "\nAliases: %s\n", strings.Join(info.Aliases, ", "))
		}
		if len(info.Options) == 0 {
			continue
		}
		b.WriteString("\n| Parameter | Type | Required | Default | Description |\n")
		b.WriteString("|-----------|------|----------|---------|-------------|\n")
		for _, opt := range info.Options {
			name := opt.Name
			if opt.Variadic {
				name += "..."
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				name, escapeCell(opt.Type), yesNo(opt.Required), escapeCell(opt.Default), escapeCell(opt.Description))
		}
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Write renders ref in format to w. Markdown goes through printer so styled
// printers render it with glamour; pass nil to write it raw.
func Write(w io.Writer, printer *output.Printer, ref Reference, format string) error {
	switch format {
	case FormatYAML:
		data, err := YAML(ref)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatMarkdown, "":
		md := Markdown(ref)
		if printer != nil {
			printer.Markdown(md)
			return nil
		}
		_, err := io.WriteString(w, md)
		return err
	default:
		return fmt.Errorf("unknown format %q (expected %s or %s)", format, FormatMarkdown, FormatYAML)
	}
}
