package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show, change, export or import settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closer()
			if err := writeSettingsYAML(cmd.OutOrStdout(), a.Settings.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# alarm: %s\n", a.Settings.SelectedAlarm().Name)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <volume|work|break|alarm|notify> [value]",
		Short: "Change one setting",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execLine(cmd, opts, "set "+strings.Join(args, " "))
		},
	}

	export := &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the settings to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closer()
			if args[0] == "-" {
				return writeSettingsYAML(cmd.OutOrStdout(), a.Settings.Snapshot())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			defer f.Close()
			if err := writeSettingsYAML(f, a.Settings.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings written to %s\n", args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the settings from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := readSettingsYAML(args[0])
			if err != nil {
				return err
			}
			a, closer, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closer()
			if err := a.Settings.Replace(next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings imported from %s\n", args[0])
			return nil
		},
	}

	settingsCmd.AddCommand(show, set, export, imp)
	return settingsCmd
}

func writeSettingsYAML(w io.Writer, s model.Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}

// readSettingsYAML starts from the defaults so a partial file only changes
// the keys it names.
func readSettingsYAML(path string) (model.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Settings{}, fmt.Errorf("read %s: %w", path, err)
	}
	out := model.DefaultSettings(0, 0)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return model.Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}
