package commands

import (
	"fmt"
	"io"

	"github.com/janisto/greet-playground/internal/form"
)

// busyLine is shown on stderr while the submit button would be disabled.
const busyLine = "Waiting for the greeting service..."

type busyIndicator struct{ w io.Writer }

func (b busyIndicator) SetDisabled(disabled bool) {
	if disabled {
		_, _ = fmt.Fprintln(b.w, busyLine)
	}
}

type lineOutput struct{ w io.Writer }

func (o lineOutput) SetText(text string) {
	_, _ = fmt.Fprintln(o.w, text)
}

// errorOutput skips the clearing write made on success.
type errorOutput struct{ w io.Writer }

func (o errorOutput) SetText(text string) {
	if text != "" {
		_, _ = fmt.Fprintln(o.w, text)
	}
}

// terminalElements maps the form onto stdio: the greeting goes to out,
// busy state and errors to errOut.
func terminalElements(name string, out, errOut io.Writer) form.Elements {
	return form.Elements{
		Name:     form.Value(name),
		Submit:   busyIndicator{errOut},
		Greeting: lineOutput{out},
		Error:    errorOutput{errOut},
	}
}
