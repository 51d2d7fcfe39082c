package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrijr/sequencer/internal/script"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script.yaml|dir>...",
	Short: "Check scripts without playing them",
	Long: `Validate parses each script and reports its steps, actions and the
length of one pass. A directory argument checks every .yaml and .yml
script in it.

Exit codes:
  0 - All scripts are valid
  1 - At least one script failed to load`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	checked, failed := 0, 0
	for _, path := range args {
		scripts, err := loadScripts(path)
		if err != nil {
			checked++
			failed++
			printErrorTo(cmd.ErrOrStderr(), err)
			continue
		}
		for _, s := range scripts {
			checked++
			fmt.Fprintf(out, "%s: ok (%q, %d steps, %d actions, %s per pass)\n",
				s.Source, s.Title, len(s.Steps), len(s.ActionNames()), s.Duration())
			if s.Description != "" {
				fmt.Fprintf(out, "  %s\n", s.Description)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts invalid", failed, checked)
	}
	return nil
}

// loadScripts loads path as a single script, or every script in it when it
// is a directory.
func loadScripts(path string) ([]*script.Script, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		scripts, err := script.LoadDir(path)
		if err != nil {
			return nil, err
		}
		if len(scripts) == 0 {
			return nil, fmt.Errorf("no scripts in %s", path)
		}
		return scripts, nil
	}
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	return []*script.Script{s}, nil
}
