package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the MM-DD-YYYY format accepted for due dates.
const DateLayout = "01-02-2006"

// errEndOfInput unwinds the menu when the input stream closes.
var errEndOfInput = errors.New("end of input")

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *prompter) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// line prints label and returns the trimmed answer.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) nonEmpty(label string) (string, error) {
	for {
		v, err := p.line(label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		p.println("Value cannot be empty.")
	}
}

// optional returns nil for a blank answer.
func (p *prompter) optional(label string) (*string, error) {
	v, err := p.line(label)
	if err != nil || v == "" {
		return nil, err
	}
	return &v, nil
}

// date returns nil for a blank answer and re-prompts on a bad format.
func (p *prompter) date(label string) (*time.Time, error) {
	for {
		v, err := p.line(label)
		if err != nil || v == "" {
			return nil, err
		}
		d, err := time.Parse(DateLayout, v)
		if err == nil {
			return &d, nil
		}
		p.println("Invalid date format. Use MM-DD-YYYY.")
	}
}

// choice lists options numbered from 1 and returns the selected one.
func (p *prompter) choice(label string, options []string) (string, error) {
	p.println(label)
	for i, o := range options {
		p.printf("%d. %s\n", i+1, o)
	}
	for {
		v, err := p.line(fmt.Sprintf("Enter choice (1-%d): ", len(options)))
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		p.println("Invalid choice. Try again.")
	}
}

func (p *prompter) confirm(label string) (bool, error) {
	v, err := p.line(label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "y"), nil
}
