package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ggwave",
	Short: "Send and receive data over sound",
	Long: `ggwave encodes small data payloads into audio waveforms and decodes
them back from recordings. Payloads are transmitted with one of several
frequency-shift-keying protocols in the audible or ultrasound band.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ggwave.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName(".ggwave")
	viper.AddConfigPath("$HOME")
	viper.SetEnvPrefix("ggwave")
	viper.AutomaticEnv()
}
