package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srg/blimp/internal/peripheral"
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw values from the value source without a radio",
	Long: `Draw values exactly as notifications and reads would carry them and
print each as decimal and as the little-endian wire bytes.`,
	Example: `  blimp sample
  blimp sample -n 10 --seed 42`,
	RunE: runSample,
}

var (
	sampleCount int
	sampleSeed  uint64
)

func init() {
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 5, "Number of values to draw")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "Seed for reproducible output (0 seeds from the clock)")
}

func runSample(cmd *cobra.Command, args []string) error {
	if sampleCount <= 0 {
		return fmt.Errorf("invalid count %d: must be positive", sampleCount)
	}
	cmd.SilenceUsage = true

	source := peripheral.NewRandomSource(sampleSeed)
	out := cmd.OutOrStdout()
	for i := 0; i < sampleCount; i++ {
		fmt.Fprintln(out, source.CurrentValue())
	}
	return nil
}
