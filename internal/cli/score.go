package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/scoring"
	"github.com/spf13/cobra"
)

// NewScoreCmd scores a set of answers offline against the default catalog.
func NewScoreCmd() *cobra.Command {
	var answers []string
	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Compute a score and recommendation from answers",
		Example: "  complexity-quiz score --answer project-type=saas --answer timeline=3-months",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseAnswers(domain.DefaultCatalog(), answers)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(scoring.Evaluate(set), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "answer as category=value (repeatable)")
	return cmd
}

// parseAnswers builds an AnswerSet, taking weights from catalog for known options.
func parseAnswers(catalog domain.Catalog, raw []string) (domain.AnswerSet, error) {
	set := domain.AnswerSet{}
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid answer %q, want category=value", item)
		}
		category := domain.Category(key)
		weight, _ := catalog.OptionWeight(category, value)
		set[category] = domain.Answer{Value: value, Weight: weight}
	}
	return set, nil
}
