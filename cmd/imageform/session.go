package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shouni/prompt-image-kit/pkg/form"
)

const helpText = `commands:
  :file <path>   select a prompt file (fills empty prompt/name)
  :name <name>   set the output name
  :key <key>     set the API key
  :show          print the current form values
  :submit        send the form
  :quit          exit
any other line replaces the prompt text`

// session は標準入力の行をフォーム操作とイベントに変換します。
type session struct {
	el   form.Elements
	slot *form.FileSlot
}

func newSession(el form.Elements, slot *form.FileSlot) *session {
	return &session{el: el, slot: slot}
}

// loop は入力が尽きるか :quit まで読み続けます。
// イベントは Controller.Run に渡され、送信中でも次の入力を受け付けます。
func (s *session) loop(ctx context.Context, ctrl *form.Controller, in *bufio.Scanner, out io.Writer) error {
	events := make(chan form.Event)
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx, events) }()

	fmt.Fprintln(out, helpText)
	for in.Scan() {
		ev, quit := s.handle(in.Text(), out)
		if quit {
			break
		}
		if ev == nil {
			continue
		}
		select {
		case events <- *ev:
		case <-ctx.Done():
			close(events)
			return ignoreCanceled(<-done)
		}
	}
	close(events)
	if err := ignoreCanceled(<-done); err != nil {
		return err
	}
	return in.Err()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handle は1行を解釈します。送るべきイベントがあれば返します。
func (s *session) handle(line string, out io.Writer) (*form.Event, bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return nil, false
	case ":quit", ":q":
		return nil, true
	case ":help":
		fmt.Fprintln(out, helpText)
	case ":file":
		if arg == "" {
			s.slot.Select(nil)
			fmt.Fprintln(out, "file cleared")
			return nil, false
		}
		file := form.LocalFile{Path: arg}
		s.slot.Select(file)
		ev := form.FileSelected(file)
		return &ev, false
	case ":name":
		s.el.Name.SetValue(arg)
	case ":key":
		s.el.APIKey.SetValue(arg)
	case ":show":
		file := "<none>"
		if f := s.el.PromptFile.File(); f != nil {
			file = f.Name()
		}
		fmt.Fprintf(out, "prompt: %q\nname:   %q\nfile:   %s\n", s.el.Prompt.Value(), s.el.Name.Value(), file)
	case ":submit":
		ev := form.Submit()
		return &ev, false
	default:
		s.el.Prompt.SetValue(strings.TrimSpace(line))
	}
	return nil, false
}
