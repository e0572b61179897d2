package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tetexact",
	Short: "Run spatial stochastic reaction-diffusion simulations",
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: tetexact.yaml in the working directory)")
	rootCmd.AddCommand(runCmd, serveCmd, checkpointCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tetexact")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("TETEXACT")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "tetexact: reading config: %v\n", err)
		}
	}
}
