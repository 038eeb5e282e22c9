package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/summarize"
)

var (
	summarySentences   int
	summaryAbstractive bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize email text from a file or stdin",
	Long: `Summarize email text. Reads from the given file, or stdin when no
file is provided:

  inboxpert summarize long-email.txt
  pbpaste | inboxpert summarize --abstractive

The default mode is extractive (no API key needed); --abstractive asks
Gemini for a free-form summary instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if summaryAbstractive {
			summary, err := summarize.Abstractive(cmd.Context(), config.Get(), string(data))
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		}

		fmt.Println(summarize.Extract(string(data), summarySentences))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().IntVar(&summarySentences, "sentences", 3, "number of sentences to keep (extractive mode)")
	summarizeCmd.Flags().BoolVar(&summaryAbstractive, "abstractive", false, "use Gemini for an abstractive summary")
}
