package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ekko/internal/fetcher"
	"ekko/internal/language"
	"ekko/internal/transcript"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		audioURL string
		feedURL  string
		jsonOut  bool
		textOnly bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <podcast> <episode>",
		Short: "Fetch a transcript for a podcast episode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			f, err := fetcher.New(cfg, logger)
			if err != nil {
				return err
			}
			defer f.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result := f.Fetch(runCtx, transcript.Request{
				PodcastName:  args[0],
				EpisodeTitle: args[1],
				AudioURL:     audioURL,
				FeedURL:      feedURL,
			})

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(result); err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
			case textOnly:
				fmt.Fprintln(out, result.Text)
			default:
				fmt.Fprintf(out, "Source:  %s\n", result.Source)
				fmt.Fprintf(out, "Quality: %.2f\n", result.QualityScore)
				if code, ok := result.Metadata[transcript.MetaLanguage]; ok {
					fmt.Fprintf(out, "Language: %s\n", language.DisplayName(code))
				}
				if reason, ok := result.Metadata[transcript.MetaError]; ok && !result.HasText() {
					fmt.Fprintf(out, "Reason:  %s\n", reason)
				}
				if result.HasText() {
					fmt.Fprintln(out)
					fmt.Fprintln(out, result.Text)
				}
			}

			if !result.HasText() {
				return fmt.Errorf("no transcript available for %q / %q", args[0], args[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&audioURL, "audio-url", "", "Episode audio URL (enables speech transcription)")
	cmd.Flags().StringVar(&feedURL, "feed-url", "", "Podcast feed URL")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print only the transcript text")
	return cmd
}
