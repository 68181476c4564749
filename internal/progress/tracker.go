package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/tagmetry/tagmetry/internal/model"
)

// Tracker is a Sink that drives a terminal progress bar, one stage at a
// time. Every update that carries a message is also printed to stderr on
// its own line, tagged with the update's stage.
type Tracker struct {
	bar          *progressbar.ProgressBar
	currentStage model.Stage
}

// NewTracker creates a progress bar bound to stderr.
func NewTracker() *Tracker {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("analyzing"),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar}
}

// Report implements Sink.
func (t *Tracker) Report(update model.ProgressUpdate) {
	if update.Stage != t.currentStage {
		t.currentStage = update.Stage
		t.bar.Describe(string(update.Stage))
	}
	_ = t.bar.Set(int(update.Percent))
	if update.Message != "" {
		fmt.Fprintf(os.Stderr, "\n  [%s] %s\n", update.Stage, update.Message)
	}
}

// Finish clears the bar from the terminal.
func (t *Tracker) Finish() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
