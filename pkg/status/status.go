// Package status is a line reporter: Info announces a step, and
// Done/Skipped/Failed terminate it with a colored inline suffix,
// returning the error the caller should itself return.
package status

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// NoColor disables ANSI coloring of the inline suffixes; toggled by the
// CLI's -c/--no-log-color flag.
var NoColor bool

var log = logrus.New()

// inlineOpen tracks whether the last Info call is still awaiting its
// terminating Done/Skipped/Failed/Drop.
var inlineOpen bool

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
}

// SetOutput lets callers redirect status lines (tests, `--no-log-color`
// plumbing) away from the default stderr.
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	log.SetOutput(w)
}

// Info announces the start of a step. The line stays open until Done,
// Skipped, Failed, or Drop terminates it.
func Info(msg string) {
	color.NoColor = NoColor
	log.Infof("%s ... ", msg)
	inlineOpen = true
}

// ExtraInfo logs a per-item progress line nested under the current step,
// without opening or closing an inline status.
func ExtraInfo(msg string) {
	log.Infof("  - %s", msg)
}

// Drop ends inline-status mode for a step whose own subprocess produces
// interleaved output (e.g. a streaming container build); the step is
// still expected to call Done/Skipped/Failed afterwards to log the final
// outcome on its own line.
func Drop() {
	inlineOpen = false
}

func suffix(label string, colorFn func(format string, a ...interface{}) string) string {
	if NoColor {
		return label
	}
	return colorFn(label)
}

// Done terminates the current step successfully.
func Done() error {
	line := suffix("OK", color.GreenString)
	if inlineOpen {
		fmt.Println(line)
	} else {
		log.Info(line)
	}
	inlineOpen = false
	return nil
}

// Skipped terminates the current step as a deliberate no-op.
func Skipped() error {
	line := suffix("SKIP", color.YellowString)
	if inlineOpen {
		fmt.Println(line)
	} else {
		log.Info(line)
	}
	inlineOpen = false
	return nil
}

// Failed terminates the current step with err, logs it, and returns it
// unchanged so callers can `return status.Failed(err)`.
func Failed(err error) error {
	line := suffix("FAIL", color.RedString)
	if inlineOpen {
		fmt.Println(line)
	} else {
		log.Info(line)
	}
	inlineOpen = false
	if err != nil {
		log.Error(err)
	}
	return err
}

// Warn logs a standalone warning line, used by the verifier to surface
// non-fatal findings.
func Warn(msg string) {
	log.Warn(msg)
}
