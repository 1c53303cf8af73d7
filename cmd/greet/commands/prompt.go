package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts the prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user for a line of text.
type Prompter interface {
	Input(ctx context.Context, message string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: message,
		Help:    "The name is sent as typed. An empty answer is greeted too.",
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return out, nil
}

// readName takes the name from args, the prompt or the first stdin line.
func readName(ctx context.Context, e *env, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if e.isTerminal() {
		return e.prompt.Input(ctx, "Your name:")
	}
	line, err := bufio.NewReader(e.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read name: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
