package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/declient/packages/contract"
)

// WatchDebounceDelay coalesces bursts of file events into one re-validation
const WatchDebounceDelay = 300 * time.Millisecond

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest...>",
	Short: "Validate contract manifests",
	Long: `Validate contract manifests without issuing any requests.

All defects of a manifest are reported in one pass, not just the first.

Examples:
  declient validate api.yaml
  declient validate api.yaml users.yaml
  declient validate api.yaml --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate when a manifest changes")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := validateAll(cmd, args)

	if validateWatch {
		return watchManifests(cmd, args)
	}

	if hasErrors {
		os.Exit(ExitContractError)
	}
	return nil
}

func validateAll(cmd *cobra.Command, paths []string) bool {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	hasErrors := false
	for _, path := range paths {
		c, err := contract.LoadFile(path)
		if err != nil {
			red.Fprintf(cmd.OutOrStderr(), "✗ %s\n", path)
			fmt.Fprintf(cmd.OutOrStderr(), "  %v\n", err)
			hasErrors = true
			continue
		}

		_, errs := contract.Validate(c)
		if len(errs) > 0 {
			red.Fprintf(cmd.OutOrStderr(), "✗ %s (%d errors)\n", path, len(errs))
			for _, e := range errs {
				fmt.Fprintf(cmd.OutOrStderr(), "  %v\n", e)
			}
			hasErrors = true
			continue
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
		for _, w := range contract.Lint(c) {
			yellow.Fprintf(cmd.OutOrStdout(), "  warning: %s: %s\n", w.Operation, w.Message)
		}
	}
	return hasErrors
}

func watchManifests(cmd *cobra.Command, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, path := range paths {
		dir := filepath.Dir(path)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Watching for changes... (ctrl-c to stop)")

	watched := make(map[string]bool)
	for _, path := range paths {
		abs, _ := filepath.Abs(path)
		watched[abs] = true
	}

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if event.Has(fsnotify.Write) && watched[abs] {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintln(cmd.OutOrStdout())
					validateAll(cmd, paths)
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStderr(), "watch error: %v\n", err)
		}
	}
}
