package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// errInterrupted ends an interactive loop on SIGINT/SIGTERM.
var errInterrupted = errors.New("interrupted")

// prompter reads operator answers from a line channel fed by a background
// scanner, so a signal can end a prompt that is waiting for input.
type prompter struct {
	out   io.Writer
	lines <-chan string
	sig   <-chan os.Signal
	done  chan struct{}
}

func newPrompter(in io.Reader, out io.Writer, sig <-chan os.Signal) *prompter {
	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return &prompter{out: out, lines: lines, sig: sig, done: done}
}

// Close stops the background scanner once it next delivers a line.
func (p *prompter) Close() { close(p.done) }

// ask prints q and waits for one line. It returns io.EOF when input ends and
// errInterrupted on a signal.
func (p *prompter) ask(q string) (string, error) {
	fmt.Fprint(p.out, q)
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-p.sig:
		fmt.Fprintln(p.out)
		return "", errInterrupted
	}
}

// choose repeats q until the answer is one of options, compared without
// case. The matching option is returned.
func (p *prompter) choose(q string, options ...string) (string, error) {
	for {
		ans, err := p.ask(q)
		if err != nil {
			return "", err
		}
		ans = strings.TrimSpace(ans)
		for _, o := range options {
			if strings.EqualFold(ans, o) {
				return o, nil
			}
		}
	}
}

// confirm asks a y/n question.
func (p *prompter) confirm(q string) (bool, error) {
	ans, err := p.choose(q+" [y/n]: ", "y", "n")
	return ans == "y", err
}
