package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"decisionmap/internal/similar"
)

var similarQuery similar.Query

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Rank stored cases against a new campaign's facets",
	Long: `Scores the most recent cases in the library against the supplied facets
and prints the top matches with the reasons each match was earned. Cases with
no facet in common are omitted, not ranked last.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		matches, err := similar.Find(st, similarQuery, similar.Options{
			PoolSize: cfg.SimilarPoolSize,
			TopK:     cfg.SimilarTopK,
		})
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No similar cases found.")
			return nil
		}

		for i, m := range matches {
			fmt.Printf("%d. case %d  score %d\n", i+1, m.ID, m.Score)
			fmt.Printf("   %s | %s | %s | %s\n", m.Category, m.Market, m.DecisionType, m.DecisionWindow)
			fmt.Printf("   %s\n", m.Objective)
			fmt.Printf("   Reasons: %s\n", strings.Join(m.Reasons, "; "))
		}
		return nil
	},
}

func init() {
	f := similarCmd.Flags()
	f.StringVar(&similarQuery.Category, "category", "", "Category facet")
	f.StringVar(&similarQuery.Market, "market", "", "Market facet")
	f.StringVar(&similarQuery.DecisionType, "decision-type", "", "Decision type facet")
	f.StringVar(&similarQuery.DecisionWindow, "decision-window", "", "Decision window facet")
	f.StringVar(&similarQuery.Channels, "channels", "", "Comma-separated channel list")

	rootCmd.AddCommand(similarCmd)
}
