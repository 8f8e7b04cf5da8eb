package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Jobeer1/agedfix/extractor/aged"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective normalization rules",
	Long: `Prints the account prefix tables, date layouts and header aliases in
effect after merging the config file with the built-in defaults. The output
can be pasted under a "rules:" key in .agedfix.yaml and edited.`,
	Run: func(cmd *cobra.Command, args []string) {
		rules, err := loadRules(viper.GetViper())
		if err != nil {
			fmt.Printf("Error loading rules: %v\n", err)
			os.Exit(1)
		}
		if err := writeRules(os.Stdout, rules); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func writeRules(w io.Writer, rules aged.Rules) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
