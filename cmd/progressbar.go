package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/jaki95/discogs-scraper/internal/progress"
)

// progressReporter renders tracker events for the user.
type progressReporter interface {
	listen(e progress.Event)
	finish()
}

// newProgressReporter returns the reporter for mode: "bar" draws a progress
// bar on the terminal, "json" writes one event per line to w.
func newProgressReporter(mode string, w io.Writer) (progressReporter, error) {
	switch mode {
	case "", "bar":
		return newProgressBar(), nil
	case "json":
		return &jsonProgress{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown progress mode %q", mode)
	}
}

type progressBar struct {
	bar *progressbar.ProgressBar
}

func newProgressBar() *progressBar {
	return &progressBar{bar: progressbar.NewOptions(
		100,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetDescription("[cyan][1/3][reset] Discovering artists..."),
	)}
}

func (p *progressBar) listen(e progress.Event) {
	switch e.Stage {
	case progress.StageDiscovering:
		p.bar.Describe("[cyan][1/3][reset] Discovering artists...")
	case progress.StageExtracting:
		if d := e.EntityDetails; d != nil {
			p.bar.Describe(fmt.Sprintf("[cyan][2/3][reset] Artist %d/%d", d.Index+1, d.Total))
		}
	case progress.StageSaving:
		p.bar.Describe("[cyan][3/3][reset] Saving records...")
	case progress.StageComplete:
		p.bar.Describe("[green]Done[reset]")
	case progress.StageError:
		p.bar.Describe("[red]Failed[reset]")
	}
	_ = p.bar.Set(int(e.Progress))
}

func (p *progressBar) finish() {
	_ = p.bar.Finish()
	fmt.Println()
}

type jsonProgress struct {
	enc *json.Encoder
}

func (j *jsonProgress) listen(e progress.Event) {
	if err := j.enc.Encode(e); err != nil {
		slog.Debug("Failed to write progress event", "error", err)
	}
}

func (j *jsonProgress) finish() {}
