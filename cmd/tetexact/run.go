package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tetexact/ssacore/internal/ssa"
	"github.com/tetexact/ssacore/internal/ssalog"
	"github.com/sirupsen/logrus"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a model and run it to completion on the command line",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("model", "", "path to a ModelConfig JSON file")
	runCmd.Flags().Float64("end-time", 1.0, "simulation end time")
	runCmd.Flags().Uint64("seed1", 1, "first RNG seed")
	runCmd.Flags().Uint64("seed2", 2, "second RNG seed")
	viper.BindPFlag("model", runCmd.Flags().Lookup("model"))
	viper.BindPFlag("end-time", runCmd.Flags().Lookup("end-time"))
	viper.BindPFlag("seed1", runCmd.Flags().Lookup("seed1"))
	viper.BindPFlag("seed2", runCmd.Flags().Lookup("seed2"))
}

func runRun(cmd *cobra.Command, args []string) error {
	modelPath := viper.GetString("model")
	if modelPath == "" {
		return fmt.Errorf("--model is required")
	}
	cfg, err := loadModelConfig(modelPath)
	if err != nil {
		return err
	}

	log := ssalog.New(logrus.InfoLevel)
	rng := ssa.NewRNG(viper.GetUint64("seed1"), viper.GetUint64("seed2"))
	e, err := ssa.Build(cfg, rng, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	endTime := viper.GetFloat64("end-time")
	if err := e.Run(endTime); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("finished: time=%g nsteps=%d a0=%g\n", e.Time(), e.NSteps(), e.A0())
	return nil
}
