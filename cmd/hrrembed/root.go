package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavorite/hrrembed"
)

var version = "dev"

var (
	cfgPath      string
	envPath      string
	globalConfig *hrrembed.Config
)

var rootCmd = &cobra.Command{
	Use:   "hrrembed",
	Short: "Holographic word embeddings from a text corpus",
	Long: `hrrembed assigns every word of a wordlist a random base vector and
accumulates context, order and syntax embeddings from a corpus by summing
and binding base vectors, then answers similarity and completion queries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		cfg, err := hrrembed.LoadConfig(cfgPath, envPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "hrrembed.yaml", "path to YAML configuration")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "dotenv file loaded before HRR_* overrides")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(trainCmd)
}
