package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/glucoguard/internal/bundle"
	"github.com/abhisek/glucoguard/internal/risk"
	"github.com/abhisek/glucoguard/internal/ui/components"
)

// scoreFlags maps feature names to their flag names.
var scoreFlags = map[string]string{
	bundle.FeatureBMI:          "bmi",
	bundle.FeatureHighBP:       "high-bp",
	bundle.FeatureHighChol:     "high-chol",
	bundle.FeaturePhysActivity: "phys-activity",
	bundle.FeatureGenHlth:      "gen-hlth",
	bundle.FeatureAge:          "age",
	bundle.FeatureSex:          "sex",
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one set of answers and print the result",
	Example: "  glucoguard score --bmi 31.4 --high-bp 1 --gen-hlth 4 --age 10\n" +
		"  glucoguard score --sex 1 --threshold 0.35 --json",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scorer, err := loadScorer()
		if err != nil {
			return err
		}

		rec := make(risk.Record)
		for _, f := range risk.Fields() {
			val, err := cmd.Flags().GetFloat64(scoreFlags[f.Name])
			if err != nil {
				return err
			}
			rec[f.Name] = val
		}

		threshold := scorer.Bundle().Threshold()
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetFloat64("threshold")
		}

		res, err := scorer.Score(rec, threshold)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

func init() {
	for _, f := range risk.Fields() {
		scoreCmd.Flags().Float64(scoreFlags[f.Name], f.Default, flagUsage(f))
	}
	scoreCmd.Flags().Float64("threshold", 0, "Decision threshold in [0, 1] (default: the bundle's)")
	scoreCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func flagUsage(f risk.Field) string {
	switch f.Kind {
	case risk.KindContinuous:
		return fmt.Sprintf("%s (%g-%g)", f.Prompt, f.Min, f.Max)
	default:
		var opts []string
		for _, c := range f.Choices() {
			opts = append(opts, fmt.Sprintf("%d=%s", c, f.Labels[c]))
		}
		return fmt.Sprintf("%s (%s)", f.Prompt, strings.Join(opts, ", "))
	}
}

const barWidth = 40

func printResult(w io.Writer, res risk.Result) error {
	pill := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F8FAFC")).
		Background(lipgloss.Color(res.Label.Color())).
		Padding(0, 1).
		Render(res.Verdict())

	bar := components.NewProgressBar("", res.Probability, false, barWidth)
	bar.Fill = lipgloss.NewStyle().Background(lipgloss.Color(res.Label.Color()))

	_, err := lipgloss.Fprintf(w,
		"Estimated probability: %s\n%s\n%s\nDecision threshold = %s\n\n%s\n",
		res.ProbabilityText(), pill, bar.View(), res.ThresholdText(), risk.Disclaimer)
	return err
}
