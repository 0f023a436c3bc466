package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFull bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Export the device configuration over SSH",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDriver()
		if err != nil {
			return err
		}
		defer d.Close()

		cfg, err := d.GetConfig(cmd.Context(), configFull)
		if err != nil {
			return err
		}
		fmt.Println(cfg)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <export-file>",
	Short: "Diff a saved export against the device configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidate, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading candidate: %w", err)
		}

		d, err := openDriver()
		if err != nil {
			return err
		}
		defer d.Close()

		diff, err := d.CompareConfig(cmd.Context(), string(candidate))
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("configurations match")
			return nil
		}
		fmt.Println(diff)
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <script-file>",
	Short: "Apply a candidate configuration script via /import",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidate, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading candidate: %w", err)
		}

		d, err := openDriver()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.LoadReplaceCandidate(cmd.Context(), string(candidate)); err != nil {
			return err
		}
		fmt.Println("candidate applied")
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configFull, "full", false, "Include default values (/export verbose)")

	rootCmd.AddCommand(configCmd, compareCmd, loadCmd)
}
