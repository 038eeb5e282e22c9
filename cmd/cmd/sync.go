package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaswanthpuritipati/inboXpert/internal/classify"
	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/gmail"
	"github.com/yaswanthpuritipati/inboXpert/internal/store"
)

var syncMax int64

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync recent Gmail messages into the local store",
	Long: `Sync recent inbox messages from Gmail into the local SQLite store,
tagging each with a spam verdict and a reply-intent label.

Requires OAuth credentials (see gmail.credentials_file in the config).
On first use you will be prompted to authorize the application.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		client, err := gmail.NewClient(cfg.Gmail)
		if err != nil {
			return err
		}

		st, err := store.NewStore(cfg.Store.Directory)
		if err != nil {
			return err
		}
		defer st.Close()

		syncer := gmail.NewSyncer(client, classify.New(cfg.Classify), st)

		max := syncMax
		if max == 0 {
			max = cfg.Gmail.MaxMessages
		}
		n, err := syncer.Sync(cmd.Context(), max)
		if err != nil {
			if strings.Contains(err.Error(), "no Gmail token stored") {
				return runAuthFlow(cmd, client)
			}
			return err
		}

		fmt.Printf("Synced %d messages.\n", n)
		return nil
	},
}

// runAuthFlow walks the user through the one-time OAuth consent step.
func runAuthFlow(cmd *cobra.Command, client *gmail.Client) error {
	fmt.Printf("Authorize inboXpert by visiting:\n\n  %s\n\nPaste the authorization code: ", client.AuthURL())

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	if err := client.Exchange(cmd.Context(), strings.TrimSpace(code)); err != nil {
		return err
	}
	fmt.Println("Token stored. Run `inboxpert sync` again.")
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Int64Var(&syncMax, "max", 0, "maximum messages to sync (default from config)")
}
