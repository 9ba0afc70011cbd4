package seed

import (
	"fmt"
	"io"
)

// Reporter receives step progress. Status announces a step; exactly one of
// OK or Fail follows it.
type Reporter interface {
	Status(msg string)
	OK()
	Fail(err error)
}

// TextReporter writes "<step> ... ok" lines to Out and failure detail to
// Err.
type TextReporter struct {
	Out io.Writer
	Err io.Writer
}

// Status implements Reporter.
func (r TextReporter) Status(msg string) {
	fmt.Fprint(r.Out, msg+" ... ")
}

// OK implements Reporter.
func (r TextReporter) OK() {
	fmt.Fprintln(r.Out, "ok")
}

// Fail implements Reporter.
func (r TextReporter) Fail(err error) {
	fmt.Fprintln(r.Out, "FAIL")
	fmt.Fprintf(r.Err, " error: %v\n", err)
}

// discard is used when a Driver has no Reporter.
type discard struct{}

func (discard) Status(string) {}
func (discard) OK()           {}
func (discard) Fail(error)    {}
