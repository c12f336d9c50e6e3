package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "souq",
	Short: "Souq catalog toolbox: ingestion, repricing and maintenance commands",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// ASCII banner on start (random font each run)
		fonts := []string{"banner", "big", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "rectangles"}
		fig := figure.NewFigure("Souq CLI ->", fonts[rand.Intn(len(fonts))], true)
		fig.Print()
	},
}

// Execute runs the CLI. Registered commands from Apply plus the ones
// added by init() in this package.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
