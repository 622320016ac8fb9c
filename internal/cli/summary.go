package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tubetalk/tubetalk/internal/models"
)

var (
	summaryWait    bool
	summaryTimeout time.Duration
)

var summaryCmd = &cobra.Command{
	Use:   "summary <video-id>",
	Short: "Fetch the background summary for a processed video",
	Long: `Print the summary generated in the background when the video was
processed. If generation is still running the command reports that; use
--wait to poll until it is ready.

Examples:
  tubetalk summary dQw4w9WgXcQ
  tubetalk summary dQw4w9WgXcQ --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVarP(&summaryWait, "wait", "w", false, "poll until the summary is ready")
	summaryCmd.Flags().DurationVar(&summaryTimeout, "timeout", 5*time.Minute, "give up waiting after this long")
}

func runSummary(cmd *cobra.Command, args []string) error {
	c := apiClient()
	videoID := args[0]

	deadline := time.Now().Add(summaryTimeout)
	for {
		summary, err := c.Summary(cmd.Context(), videoID)
		switch {
		case err == nil:
			fmt.Println(summary)
			return nil
		case errors.Is(err, models.ErrSummaryPending):
			if !summaryWait {
				fmt.Println("Summary is still being generated; try again shortly or use --wait.")
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("summary for %s not ready after %s", videoID, summaryTimeout)
			}
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(2 * time.Second):
			}
		default:
			return err
		}
	}
}
