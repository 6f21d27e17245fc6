package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"decisionmap/internal/store"
)

var listFilter struct {
	limit        int
	offset       int
	query        string
	category     string
	market       string
	decisionType string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases in the library, newest first",
	Long: `Lists case summaries. Facet filters combine conjunctively; --q is a
substring search across objective, channels, and brief text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cases, total, err := st.List(store.Filter{
			Limit:        listFilter.limit,
			Offset:       listFilter.offset,
			Query:        listFilter.query,
			Category:     listFilter.category,
			Market:       listFilter.market,
			DecisionType: listFilter.decisionType,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tCATEGORY\tMARKET\tDECISION TYPE\tWINDOW\tOBJECTIVE")
		for _, c := range cases {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.CreatedAt, c.Category, c.Market, c.DecisionType, c.DecisionWindow, c.Objective)
		}
		w.Flush()
		fmt.Printf("%d of %d case(s)\n", len(cases), total)
		return nil
	},
}

var showBriefOnly bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one full case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid case id %q", args[0])
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.Get(id)
		if err != nil {
			return err
		}

		if showBriefOnly {
			fmt.Println(c.BriefText)
			return nil
		}

		fmt.Printf("Case %d  (%s)\n", c.ID, c.CreatedAt)
		fmt.Printf("Category: %s | Market: %s | Channels: %s\n", c.Category, c.Market, c.Channels)
		fmt.Printf("Decision type: %s | Tension: %s | Window: %s\n",
			c.DecisionType, c.PrimaryTension, c.DecisionWindow)
		fmt.Println()
		fmt.Println("=== Campaign Input ===")
		fmt.Println(c.InputJSON)
		fmt.Println()
		fmt.Println("=== Decision Map ===")
		fmt.Println(c.DecisionMapJSON)
		fmt.Println()
		fmt.Println("=== Brief ===")
		fmt.Println(c.BriefText)
		return nil
	},
}

func init() {
	f := listCmd.Flags()
	f.IntVar(&listFilter.limit, "limit", 20, "Page size")
	f.IntVar(&listFilter.offset, "offset", 0, "Page offset")
	f.StringVar(&listFilter.query, "q", "", "Substring search over objective, channels, brief")
	f.StringVar(&listFilter.category, "category", "", "Exact category filter")
	f.StringVar(&listFilter.market, "market", "", "Exact market filter")
	f.StringVar(&listFilter.decisionType, "decision-type", "", "Exact decision type filter")

	showCmd.Flags().BoolVar(&showBriefOnly, "brief", false, "Print only the brief text")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
