// Package agent runs a chat with AI analysts about an attribution report.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/sonwamoh/perfomance-attribution/logger"
)

// Agent is a chat session: the user talks to a facilitator that delegates
// to experts.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Print, when set, renders the answers instead of writing them to w as is.
	Print  func(markdown string)
	Logger *zap.Logger
}

// New returns an agent whose facilitator runs on model, knows brief (the
// headline of the report being discussed) and delegates to experts.
//
// Answers are written to w, questions read from r.
func New(w io.Writer, r io.Reader, model, brief string, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(model, brief, experts...),
	}
}

// Start opens the chats of the experts and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "explain> "

// quit reports whether input ends the session.
func quit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "bye", "exit", "quit":
		return true
	}
	return false
}

// Run asks prompts first, then reads questions from the user until 'bye' or
// the end of the input.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	l := logger.OrNop(a.Logger)

	fmt.Fprintln(a.w, "Ask anything about this attribution. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err == io.EOF && strings.TrimSpace(input) == "" {
				return nil
			}
			if err != nil && err != io.EOF {
				return err
			}
			if strings.TrimSpace(input) == "" {
				continue
			}
		}
		if quit(input) {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		answer := text(content)
		l.Debug("answered", zap.Int("question", len(input)), zap.Int("answer", len(answer)))
		if a.Print != nil {
			a.Print(answer)
			continue
		}
		fmt.Fprintln(a.w, answer)
	}
}
