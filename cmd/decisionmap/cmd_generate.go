package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"decisionmap/internal/campaign"
	"decisionmap/internal/pipeline"
	"decisionmap/internal/provider"
)

var (
	genInput        campaign.Input
	genTemplateFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the two-pass pipeline and file the result as a case",
	Long: `Runs Pass A (campaign record -> validated Decision Map) and Pass B
(Decision Map -> narrative brief), then appends the pair to the case library.

The campaign is supplied either through flags or through a filled-in intake
template (--template). Required fields: category, objective, channels, market,
audience logic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := genInput
		if genTemplateFile != "" {
			f, err := os.Open(genTemplateFile)
			if err != nil {
				return fmt.Errorf("failed to open template %s: %w", genTemplateFile, err)
			}
			parsed, perr := campaign.ParseTemplate(f)
			f.Close()
			if perr != nil {
				fmt.Fprintln(os.Stderr, pipeline.Remediation(perr))
				return perr
			}
			in = parsed
		}

		gen, err := provider.New(provider.Options{
			Provider:     cfg.Provider,
			GeminiAPIKey: cfg.GeminiAPIKey,
			OpenAIAPIKey: cfg.OpenAIAPIKey,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, pipeline.Remediation(err))
			return err
		}

		st, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, pipeline.Remediation(err))
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := pipeline.New(gen, st, pipeline.Models{
			PassA: cfg.PassAModel,
			PassB: cfg.PassBModel,
		}, logger)

		res, err := runner.Run(ctx, in)
		if err != nil {
			logger.Warn("generation failed",
				zap.String("failure", pipeline.Classify(err).String()),
				zap.Error(err))
			fmt.Fprintln(os.Stderr, pipeline.Remediation(err))
			return err
		}

		fmt.Println("=== Decision Map ===")
		fmt.Println(res.DecisionMapJSON)
		fmt.Println()
		fmt.Println("=== Brief ===")
		fmt.Println(res.Brief)
		fmt.Println()
		fmt.Printf("Saved as case %d (run %s)\n", res.CaseID, res.RunID)
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genInput.Category, "category", "", "Campaign category (required unless --template)")
	f.StringVar(&genInput.Objective, "objective", "", "Campaign objective (required unless --template)")
	f.StringVar(&genInput.Channels, "channels", "", "Comma-separated channel list (required unless --template)")
	f.StringVar(&genInput.Market, "market", "", "Market descriptor (required unless --template)")
	f.StringVar(&genInput.FlightDates, "flight-dates", "", "Flight dates")
	f.StringVar(&genInput.AudienceLogic, "audience-logic", "", "Audience logic (required unless --template)")
	f.StringVar(&genInput.CreativeNotes, "creative-notes", "", "Creative notes")
	f.StringVar(&genInput.MeasurementType, "measurement-type", "", "Measurement type")
	f.StringVar(&genInput.KeyResult, "key-result", "", "Key result")
	f.StringVar(&genInput.POIContext, "poi-context", "", "POI context")
	f.StringVar(&genInput.Notes, "notes", "", "Free-form notes")
	f.StringVar(&genTemplateFile, "template", "", "Read the campaign from a filled-in intake template instead of flags")

	rootCmd.AddCommand(generateCmd)
}
