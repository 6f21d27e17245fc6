package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the whole case library as JSONL",
	Long: `Writes every case as one JSON object per line. With no file argument the
stream goes to stdout, so it can be piped or redirected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var w io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}

		n, err := st.ExportJSONL(w)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			fmt.Printf("Exported %d case(s) to %s\n", n, args[0])
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import cases from a JSONL file",
	Long: `Reads one case per line and appends each to the library. Imports are
strictly additive: imported ids are ignored and fresh ids are assigned, so an
import never overwrites or merges existing cases. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.ImportJSONL(r)
		if err != nil {
			return fmt.Errorf("import stopped after %d case(s): %w", n, err)
		}
		fmt.Printf("Imported %d case(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
