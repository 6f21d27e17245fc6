package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"decisionmap/internal/campaign"
)

var templateOut string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a blank intake template with one sample row",
	RunE: func(cmd *cobra.Command, args []string) error {
		if templateOut == "" {
			return campaign.WriteTemplate(os.Stdout)
		}
		f, err := os.Create(templateOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", templateOut, err)
		}
		defer f.Close()
		if err := campaign.WriteTemplate(f); err != nil {
			return err
		}
		fmt.Printf("Template written to %s\n", templateOut)
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "Destination file (default stdout)")
	rootCmd.AddCommand(templateCmd)
}
