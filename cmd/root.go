// Package cmd implements the tzxtape command-line tool: a thin driver
// over the spectrum/tape engine for inspecting TZX/TAP/CDT tapes and for
// manually exercising the pulse state machine.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tzxtape",
	Short: "Inspect and play ZX Spectrum/Amstrad cassette tape images",
	Long: `tzxtape reads TZX, TAP and CDT cassette tape images and drives the same
block-driven pulse generation engine a Z80 emulator would, for inspection
and manual testing.`,
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// mediaType returns the explicit media type if given, otherwise the
// filename's extension, lower-cased.
func mediaType(explicit, filename string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
