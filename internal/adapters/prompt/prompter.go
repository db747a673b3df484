package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/veldt-labs/sponsorctl/internal/domain"
)

// Prompter reads interactive answers line by line from in. An empty answer
// means the user declined.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *Prompter) Password(ctx context.Context, label string) (string, error) {
	answer, err := p.ask(ctx, label+": ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", domain.ErrPromptDeclined
	}
	return answer, nil
}

func (p *Prompter) Amount(ctx context.Context, label string) (float64, error) {
	answer, err := p.ask(ctx, label+": ")
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return 0, domain.ErrPromptDeclined
	}

	amount, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", answer, err)
	}
	return amount, nil
}

func (p *Prompter) Confirm(ctx context.Context, label string) (bool, error) {
	answer, err := p.ask(ctx, label+" [y/N]: ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(p.out, label)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return "", domain.ErrPromptDeclined
		}
		return "", fmt.Errorf("read answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}
