package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/floaty/internal/jsonl"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config and data directories",
		Long: `Create the configuration directory with a default config.yaml and the
data directory for notes.jsonl. Existing files are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	if err := os.MkdirAll(a.cfg.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	configPath := filepath.Join(a.cfg.ConfigDir, configFileExt)
	created, err := writeConfigIfMissing(configPath, a.flags.dataDir)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	// Loading validates an existing log and reports bad lines.
	notes, bad, err := a.notes.LoadReport()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "Notes: %s (%d notes", filepath.Join(a.cfg.DataDir, jsonl.NotesFileName), len(notes))
	if len(bad) > 0 {
		fmt.Fprintf(out, ", %d unreadable lines", len(bad))
	}
	fmt.Fprintln(out, ")")
	fmt.Fprintln(out, "floaty initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml if the file does not exist and
// reports whether it did. An explicit --data-dir is recorded in the file.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data := []byte(defaultConfigYAML)
	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return false, err
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return false, fmt.Errorf("parse default config: %w", err)
		}
		setMappingValue(&doc, cfgKeyDataDir, abs)
		if data, err = yaml.Marshal(&doc); err != nil {
			return false, fmt.Errorf("marshal config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// setMappingValue sets key to value in the top-level mapping of doc,
// appending the pair if the key is absent. Comments are preserved.
func setMappingValue(doc *yaml.Node, key, value string) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1].Value = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
