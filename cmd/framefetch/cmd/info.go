package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
	"thirdcoast.systems/framefetch/pkg/utils/format"
)

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "info <url>",
		Short: "Show title, uploader and available formats of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := downloader.NewForm(a.client)
			form.SetURL(args[0])

			info, err := form.FetchInfo(cmd.Context())
			if err != nil {
				return errors.New(downloader.TranslateInfoError(err))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return printInfo(cmd.OutOrStdout(), info)
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Print the backend response as JSON")
	return c
}

func printInfo(w io.Writer, info *frameapi.VideoInfo) error {
	uploader := info.Uploader
	if uploader == "" {
		uploader = "Unknown"
	}

	fmt.Fprintf(w, "Title:    %s\n", info.Title)
	fmt.Fprintf(w, "Uploader: %s\n", uploader)
	fmt.Fprintf(w, "Platform: %s\n", videolink.PlatformLabel(info.Platform))
	fmt.Fprintf(w, "Duration: %s\n", format.DurationPtr(info.Duration))

	if len(info.Formats) == 0 {
		fmt.Fprintln(w, "Formats:  none listed")
		return nil
	}

	fmt.Fprintln(w, "Formats:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range info.Formats {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", f.Quality, f.Ext, format.BytesPtr(f.Filesize), format.FPS(f.FPS))
	}
	return tw.Flush()
}
