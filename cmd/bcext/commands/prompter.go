package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/internal/provision"
)

const promptTitle = "Select an object range for the extension"

// NewPrompter returns an interactive selector when in is a terminal and a line-based
// one otherwise.
func NewPrompter(in io.Reader, out io.Writer) provision.Prompter {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return &SelectPrompter{input: file, output: out}
	}

	return &LinePrompter{input: bufio.NewReader(in), output: out}
}

// SelectPrompter shows the options in an interactive list.
type SelectPrompter struct {
	input  io.Reader
	output io.Writer
}

// PromptChoice implements provision.Prompter. Escape or Ctrl+C cancels.
func (p *SelectPrompter) PromptChoice(ctx context.Context, options []string) (string, bool, error) {
	if len(options) == 0 {
		return "", false, nil
	}

	var choice string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(promptTitle).
				Options(huh.NewOptions(options...)...).
				Value(&choice),
		),
	).WithInput(p.input).WithOutput(p.output).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("running selection prompt: %w", err)
	}

	return choice, true, nil
}

// LinePrompter prints numbered options and reads the answer from a line of input.
// An empty answer or end of input cancels.
type LinePrompter struct {
	input  *bufio.Reader
	output io.Writer
}

// PromptChoice implements provision.Prompter. The answer is an option number or the option itself.
func (p *LinePrompter) PromptChoice(_ context.Context, options []string) (string, bool, error) {
	if len(options) == 0 {
		return "", false, nil
	}

	_, _ = fmt.Fprintln(p.output, promptTitle+":")

	for i, option := range options {
		_, _ = fmt.Fprintf(p.output, "  %d) %s\n", i+1, option)
	}

	_, _ = fmt.Fprintf(p.output, "Choice [1-%d, empty to cancel]: ", len(options))

	line, err := p.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("reading choice: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", false, nil
	}

	for _, option := range options {
		if option == answer {
			return option, true, nil
		}
	}

	index, err := strconv.Atoi(answer)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", constants.ErrInvalidChoice, answer)
	}

	if index < 1 || index > len(options) {
		return "", false, fmt.Errorf("%w: %d is not between 1 and %d", constants.ErrInvalidChoice, index, len(options))
	}

	return options[index-1], true, nil
}
