package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <video-id> <question>",
	Short: "Ask a single question about a processed video",
	Long: `Ask one question about a processed video and print the answer.
Each invocation extends the server-side conversation for that video, so
follow-up questions may use pronouns.

Examples:
  tubetalk ask dQw4w9WgXcQ "What is the main topic?"
  tubetalk ask dQw4w9WgXcQ "When was it recorded?"`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	answer, err := apiClient().Chat(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
