package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devpulse/internal/timeline"
)

var (
	provider     string
	commentsFile string
	rangeStart   string
	rangeEnd     string

	transitionStart string
	transitionEnd   string
)

var itemsCmd = &cobra.Command{
	Use:   "items <records.json>",
	Short: "Compute item statistics from a JSON array of provider records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading records: %w", err)
		}

		var comments []byte
		if commentsFile != "" {
			if comments, err = os.ReadFile(commentsFile); err != nil {
				return fmt.Errorf("reading comments: %w", err)
			}
		}

		result, err := service.ItemStats(provider, records, comments, rangeRequest())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var velocityCmd = &cobra.Command{
	Use:   "velocity <issues.json>",
	Short: "Compute sprint velocity from a JSON array of Jira issues",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading issues: %w", err)
		}

		result, err := service.VelocityStats(records, rangeRequest())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var resolutionCmd = &cobra.Command{
	Use:   "resolution <issues.json>",
	Short: "Compute average resolution time between two workflow stages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading issues: %w", err)
		}

		result, err := service.ResolutionStats(records, []string{transitionStart}, []string{transitionEnd})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func rangeRequest() *timeline.RangeRequest {
	if rangeStart == "" && rangeEnd == "" {
		return &timeline.RangeRequest{}
	}
	return &timeline.RangeRequest{Start: rangeStart, End: rangeEnd}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	itemsCmd.Flags().StringVarP(&provider, "provider", "p", "github", "record provider: github, gitlab or jira")
	itemsCmd.Flags().StringVar(&commentsFile, "comments", "", "optional JSON file with the comment collection")

	resolutionCmd.Flags().StringVar(&transitionStart, "from", "in progress", "status that starts the clock")
	resolutionCmd.Flags().StringVar(&transitionEnd, "to", "ready for qa", "status that stops the clock")

	for _, cmd := range []*cobra.Command{itemsCmd, velocityCmd, resolutionCmd} {
		cmd.Flags().StringVar(&rangeStart, "start", "", "range start (YYYY-MM-DD), empty for all time")
		cmd.Flags().StringVar(&rangeEnd, "end", "", "range end (YYYY-MM-DD), empty for now")
		rootCmd.AddCommand(cmd)
	}
}
