package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/pkg/utils/format"
)

const progressInterval = 100 * time.Millisecond

func newDownloadCmd(a *app) *cobra.Command {
	var (
		quality    string
		formatType string
		outputDir  string
		quiet      bool
	)

	c := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a video or its audio track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatType != frameapi.FormatVideo && formatType != frameapi.FormatAudio {
				return fmt.Errorf("--format must be %q or %q", frameapi.FormatVideo, frameapi.FormatAudio)
			}

			form := downloader.NewForm(a.client)
			form.SetURL(args[0])
			form.SetQuality(quality)
			form.SetFormat(formatType)

			info, err := form.FetchInfo(cmd.Context())
			if err != nil {
				return errors.New(downloader.TranslateInfoError(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %q\n", info.Title)

			d, err := form.FetchBinary(cmd.Context())
			if err != nil {
				return errors.New(downloader.TranslateDownloadError(err))
			}
			defer d.Payload.Body.Close()

			var progress io.Writer = io.Discard
			if !quiet {
				live := uilive.New()
				live.Out = cmd.ErrOrStderr()
				live.Start()
				defer live.Stop()
				progress = live
			}

			path := filepath.Join(outputDir, d.Filename)
			n, err := saveTo(path, d.Payload, progress)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\nSaved %s (%s)\n", downloader.DownloadStarted(d.Request), path, format.Bytes(n))
			return nil
		},
	}

	c.Flags().StringVarP(&quality, "quality", "q", downloader.DefaultQuality, "Video quality label, e.g. 1080p")
	c.Flags().StringVarP(&formatType, "format", "f", downloader.DefaultFormat, "Media type: video or audio")
	c.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to save the file in")
	c.Flags().BoolVar(&quiet, "quiet", false, "Do not print download progress")
	return c
}

// saveTo writes the payload to path, removing the partial file on failure.
func saveTo(path string, p *frameapi.Payload, progress io.Writer) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}

	pr := &progressReader{r: p.Body, total: p.ContentLength, out: progress}
	n, copyErr := io.Copy(f, pr)
	pr.report(true)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return 0, fmt.Errorf("write %s: %w", path, copyErr)
		}
		return 0, fmt.Errorf("close %s: %w", path, closeErr)
	}
	return n, nil
}

// progressReader reports transferred bytes at most once per progressInterval.
type progressReader struct {
	r     io.Reader
	total int64
	out   io.Writer

	mu   sync.Mutex
	done int64
	last time.Time
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.mu.Lock()
	p.done += int64(n)
	p.mu.Unlock()
	p.report(false)
	return n, err
}

func (p *progressReader) report(force bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	if !force && now.Sub(p.last) < progressInterval {
		return
	}
	p.last = now
	fmt.Fprintf(p.out, "Downloading %s\n", format.Progress(p.done, p.total))
}
