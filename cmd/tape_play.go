package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tzxtape/amstrad/cdt"
	"tzxtape/spectrum/tape"
	"tzxtape/spectrum/tape/tap"
	"tzxtape/storage"
)

var (
	tapePlayMedia string
	tapePlay48k   bool
	tapePlayTotal int
	tapePlayStep  int
	tapePlayShow  int
)

var tapePlayCmd = &cobra.Command{
	Use:                   "play FILE",
	Short:                 "Drive the pulse state machine and print the edge trace",
	Long: `Feed the engine a fixed clock schedule, exactly as a host CPU emulator
would, sampling the ear-input level after each step. For the first --show
level changes it prints the elapsed T-state count and the new level, then
a summary line with the total number of changes seen.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		f, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer f.Close()

		var engine *tape.Engine
		switch mediaType(tapePlayMedia, filename) {
		case "tzx":
			engine, err = tape.FromAsset(storage.NewReader(f), tape.Config{Is48K: tapePlay48k})
		case "tap":
			engine, err = tap.New(f, tapePlay48k)
		case "cdt":
			engine, err = cdt.New(storage.NewReader(f))
		default:
			return fmt.Errorf("unsupported media type: %q", mediaType(tapePlayMedia, filename))
		}
		if err != nil {
			return err
		}

		return playTrace(engine, tapePlayTotal, tapePlayStep, tapePlayShow)
	},
}

func playTrace(engine *tape.Engine, totalClocks, step, show int) error {
	elapsed := 0
	edges := 0
	last := engine.CurrentBit()

	for elapsed < totalClocks {
		n := step
		if elapsed+n > totalClocks {
			n = totalClocks - elapsed
		}
		if err := engine.ProcessClocks(n); err != nil {
			return err
		}
		elapsed += n

		if bit := engine.CurrentBit(); bit != last {
			edges++
			if edges <= show {
				fmt.Printf("t=%-10d bit=%v\n", elapsed, bit)
			}
			last = bit
		}

		if engine.CanFastLoad() && elapsed < totalClocks {
			// Tape has stopped; nothing more will happen before the
			// caller resumes it, so there's no point spinning through
			// the rest of the clock budget.
			break
		}
	}

	fmt.Printf("%d edges in %d T-states (stopped=%v)\n", edges, elapsed, engine.CanFastLoad())
	return nil
}

func init() {
	tapePlayCmd.Flags().StringVarP(&tapePlayMedia, "media", "m", "", "Media type, default: file extension")
	tapePlayCmd.Flags().BoolVar(&tapePlay48k, "48k", true, "Emulate 48K Spectrum semantics")
	tapePlayCmd.Flags().IntVar(&tapePlayTotal, "clocks", 10_000_000, "Total T-states to simulate")
	tapePlayCmd.Flags().IntVar(&tapePlayStep, "step", 1000, "T-states per ProcessClocks call, like a host CPU emulator's frame slice")
	tapePlayCmd.Flags().IntVar(&tapePlayShow, "show", 64, "Number of leading edges to print")
	rootCmd.AddCommand(tapePlayCmd)
}
