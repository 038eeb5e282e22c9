package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/draft"
	"github.com/yaswanthpuritipati/inboXpert/internal/store"
)

var (
	draftTone   string
	draftLength string
	draftLang   string
	draftModel  string
	draftAsJSON bool
	draftNoSave bool
)

var draftCmd = &cobra.Command{
	Use:   "draft [prompt]",
	Short: "Generate an email draft from a free-text request",
	Long: `Generate an email draft. The prompt describes the email to write, e.g.:

  inboxpert draft "ask my manager for Friday off because of a medical appointment"

The draft is printed and saved to the local store unless --no-save is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		svc, err := draft.NewService(cfg)
		if err != nil {
			return err
		}

		result, err := svc.Generate(cmd.Context(), core.DraftRequest{
			Prompt:     args[0],
			Tone:       draftTone,
			Length:     draftLength,
			TargetLang: draftLang,
			Model:      draftModel,
		})
		if err != nil {
			return err
		}

		if !draftNoSave {
			st, err := store.NewStore(cfg.Store.Directory)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: draft not saved: %v\n", err)
			} else {
				defer st.Close()
				if err := st.SaveDraft(result); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: draft not saved: %v\n", err)
				}
			}
		}

		if draftAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("Subject: %s\n\n%s\n", result.Subject, result.Body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().StringVar(&draftTone, "tone", core.ToneFormal, "tone of the draft (formal, casual)")
	draftCmd.Flags().StringVar(&draftLength, "length", core.LengthMedium, "length of the draft (short, medium, detailed)")
	draftCmd.Flags().StringVar(&draftLang, "lang", "en", "target language for the draft")
	draftCmd.Flags().StringVar(&draftModel, "model", "", "override the configured model")
	draftCmd.Flags().BoolVar(&draftAsJSON, "json", false, "print the full draft record as JSON")
	draftCmd.Flags().BoolVar(&draftNoSave, "no-save", false, "do not persist the draft")
}
