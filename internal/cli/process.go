package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <youtube-url>",
	Short: "Fetch and index a video's transcript",
	Long: `Fetch the transcript for a YouTube video, split it into passages and
build the semantic index. Summarization starts in the background once the
video is indexed.

Examples:
  tubetalk process "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  tubetalk process "https://youtu.be/dQw4w9WgXcQ"`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	result, err := apiClient().ProcessVideo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if result.AlreadyProcessed {
		fmt.Printf("Video %s already processed.\n", result.VideoID)
		return nil
	}
	fmt.Printf("Processed video %s (%d passages, language %s).\n",
		result.VideoID, result.Passages, result.Language)
	fmt.Println("Summary generation started in the background; fetch it with 'tubetalk summary'.")
	return nil
}
