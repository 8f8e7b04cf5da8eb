package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Jobeer1/agedfix/extractor/aged"
)

// Embedded default configuration, used when no .agedfix.yaml is found.
// Rule sections left out here fall back to aged.DefaultRules.
const defaultConfigYAML = `
delimiter: auto
format: json
rules:
  date_pattern: '\d{2}\.\d{2}\.\d{2,4}'
  date_layouts:
    - "02.01.06"
    - "02/01/2006"
    - "02.01.2006"
    - "02/01/06"
`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "agedfix [file or folder]",
		Short: "Normalize noisy aged accounts reports",
		Long: `agedfix turns aged accounts exports (pipe tables, CSV, OCR text or PDF)
into clean, deduplicated records with canonical account numbers.`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				viper.Set("target", args[0])
				normalizeHandler(normalizeCmd, []string{})
				return
			}
			cmd.Help()
		},
	}
)

func Execute(version string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("agedfix version {{.Version}}\n")
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.agedfix.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".agedfix")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("agedfix")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadRules reads the effective rule tables from the loaded configuration.
func loadRules(v *viper.Viper) (aged.Rules, error) {
	return aged.RulesFromViper(v, "rules")
}

// loadPipeline builds the pipeline every command shares, exiting on bad rules.
func loadPipeline() *aged.Pipeline {
	rules, err := loadRules(viper.GetViper())
	if err != nil {
		fmt.Printf("Error loading rules: %v\n", err)
		os.Exit(1)
	}
	p, err := aged.New(rules)
	if err != nil {
		fmt.Printf("Error loading rules: %v\n", err)
		os.Exit(1)
	}
	return p
}
