// Package cli provides the command-line interface for tubetalk.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tubetalk/tubetalk/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tubetalk",
	Short: "Chat with YouTube videos",
	Long: `Tubetalk fetches a YouTube video's transcript, indexes it for semantic
search, and answers questions about the video in a conversation that
remembers context. Summaries are generated in the background while you chat.

Run 'tubetalk serve' to start the API server, then use 'process', 'ask',
'chat' and 'summary' against it.`,
	Version: Version,
}

// apiClient builds a client for the configured server.
func apiClient() *client.Client {
	return client.New(serverURL)
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "server URL (default $TUBETALK_SERVER_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(statsCmd)
}
