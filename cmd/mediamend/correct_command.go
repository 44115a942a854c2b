package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediamend/internal/corrections"
)

func newCorrectCommand(ctx *commandContext) *cobra.Command {
	var (
		folder      string
		tmdbID      string
		title       string
		posterPath  string
		releaseDate string
		overview    string
		rating      float64
		mediaType   string
	)

	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Replace the metadata entry for a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.correctionService()
			if err != nil {
				return err
			}

			req := corrections.Request{
				Folder:      folder,
				TMDBID:      parseTMDBID(tmdbID),
				Title:       title,
				PosterPath:  posterPath,
				ReleaseDate: releaseDate,
				Overview:    overview,
				VoteAverage: rating,
				MediaType:   mediaType,
			}

			entry, err := service.Apply(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated %q -> %s (%s)\n", folder, entry.Title, formatTMDBID(entry.TMDBID))
			fmt.Fprintf(out, "Last updated: %s\n", formatUpdated(entry.LastUpdated))
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Folder name to correct (required)")
	cmd.Flags().StringVar(&tmdbID, "tmdb-id", "", "TMDB identifier for the correct match (required)")
	cmd.Flags().StringVar(&title, "title", "", "Display title")
	cmd.Flags().StringVar(&posterPath, "poster", "", "Poster image path")
	cmd.Flags().StringVar(&releaseDate, "release-date", "", "Release date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&overview, "overview", "", "Plot overview")
	cmd.Flags().Float64Var(&rating, "rating", 0, "Vote average")
	cmd.Flags().StringVar(&mediaType, "media-type", "", "Media type (movie or tv)")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("tmdb-id")

	return cmd
}

// parseTMDBID keeps numeric identifiers numeric so the stored document
// matches what a JSON client would have written.
func parseTMDBID(raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}
