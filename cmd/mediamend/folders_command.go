package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List folder metadata from the remote document",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.correctionService()
			if err != nil {
				return err
			}
			doc, err := service.Document(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, doc.Folders)
			}

			out := cmd.OutOrStdout()
			if len(doc.Folders) == 0 {
				fmt.Fprintln(out, "No folders recorded")
				return nil
			}

			names := make([]string, 0, len(doc.Folders))
			for name := range doc.Folders {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				entry := doc.Folders[name]
				rows = append(rows, []string{
					name,
					formatTMDBID(entry.TMDBID),
					entry.Title,
					entry.MediaType,
					entry.ReleaseDate,
					strconv.FormatFloat(entry.VoteAverage, 'f', 1, 64),
					formatUpdated(entry.LastUpdated),
					failedMark(entry.Failed),
				})
			}

			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(
					[]string{"Folder", "TMDB ID", "Title", "Type", "Released", "Rating", "Updated", "Failed"},
					rows, []int{5}))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the folder map as JSON")
	return cmd
}

// formatTMDBID renders the identifier as stored, whether numeric or string.
func formatTMDBID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatUpdated(millis int64) string {
	if millis <= 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

func failedMark(failed bool) string {
	if failed {
		return "yes"
	}
	return "no"
}
