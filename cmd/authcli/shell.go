package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/isdelr/messenger-auth/internal/form"
	"github.com/isdelr/messenger-auth/internal/models"
)

// backend is the credential API plus the session calls the shell exposes.
type backend interface {
	form.Gateway
	Me(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
	Events(ctx context.Context, limit int) ([]models.Event, error)
}

// printer shows notifications on the terminal.
type printer struct{ out io.Writer }

func (p printer) Success(msg string) { fmt.Fprintf(p.out, "[ok] %s\n", msg) }
func (p printer) Error(msg string)   { fmt.Fprintf(p.out, "[error] %s\n", msg) }

type shell struct {
	api        backend
	ctrl       *form.Controller
	in         *bufio.Scanner
	out        io.Writer
	readSecret func() (string, error)
}

func newShell(api backend, in io.Reader, out io.Writer) *shell {
	sh := &shell{
		api:  api,
		ctrl: form.NewController(api, printer{out: out}),
		in:   bufio.NewScanner(in),
		out:  out,
	}
	sh.readSecret = sh.readLine
	return sh
}

const helpText = `Commands:
  status              show the form state
  fill                enter every field the current form shows
  set <field> [value] enter one field
  submit              submit the form
  toggle              switch between login and registration
  forgot              start password recovery
  change              change the signed-in user's password
  me                  show the signed-in user
  activity            show recent account activity
  logout              end the session
  help                show this text
  quit                exit`

// Run reads commands until quit, end of input or ctx is done.
func (s *shell) Run(ctx context.Context) error {
	defer s.ctrl.Close()

	fmt.Fprintln(s.out, helpText)
	s.status()
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(s.out, "> ")
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch cmd {
		case "":
		case "status":
			s.status()
		case "fill":
			if err := s.fill(); err != nil {
				return err
			}
		case "set":
			if err := s.set(strings.TrimSpace(rest)); err != nil {
				return err
			}
		case "submit":
			s.submit(ctx)
		case "toggle":
			s.ctrl.Toggle()
			s.status()
		case "forgot":
			s.ctrl.RequestReset()
			s.status()
		case "change":
			s.change(ctx)
		case "me":
			s.me(ctx)
		case "activity":
			s.activity(ctx)
		case "logout":
			if err := s.api.Logout(ctx); err != nil {
				fmt.Fprintf(s.out, "[error] %v\n", err)
				continue
			}
			fmt.Fprintln(s.out, "[ok] Logged out")
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "unknown command %q, type help\n", cmd)
		}
	}
}

func (s *shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func (s *shell) status() {
	st := s.ctrl.State()
	fmt.Fprintf(s.out, "form: %s (%s)\n", st.Mode.Presentation(), st.Mode)
	if st.SecretQuestion != "" {
		fmt.Fprintf(s.out, "secret question: %s\n", st.SecretQuestion)
	}
	names := make([]string, 0, 8)
	for _, f := range form.VisibleFields(st.Mode) {
		mark := " "
		if st.Touched.Has(f) {
			mark = "*"
		}
		names = append(names, mark+f.String())
	}
	fmt.Fprintf(s.out, "fields: %s\n", strings.Join(names, " "))
	fmt.Fprintf(s.out, "submit enabled: %t\n", st.CanSubmit())
}

func (s *shell) prompt(f form.Field) (string, error) {
	if f == form.FieldSecretQuestion {
		opts := make([]string, len(models.SecretQuestions))
		for i, q := range models.SecretQuestions {
			opts[i] = string(q)
		}
		fmt.Fprintf(s.out, "%s [%s]: ", f, strings.Join(opts, "|"))
	} else {
		fmt.Fprintf(s.out, "%s: ", f)
	}
	if f.Secret() {
		return s.readSecret()
	}
	return s.readLine()
}

func (s *shell) fill() error {
	for _, f := range form.VisibleFields(s.ctrl.State().Mode) {
		value, err := s.prompt(f)
		if err != nil {
			return err
		}
		s.ctrl.Set(f, strings.TrimSpace(value))
	}
	s.status()
	return nil
}

func (s *shell) set(args string) error {
	name, value, hasValue := strings.Cut(args, " ")
	f, ok := form.ParseField(name)
	if !ok {
		fmt.Fprintf(s.out, "unknown field %q\n", name)
		return nil
	}
	if !hasValue {
		v, err := s.prompt(f)
		if err != nil {
			return err
		}
		value = v
	}
	s.ctrl.Set(f, strings.TrimSpace(value))
	return nil
}

func (s *shell) submit(ctx context.Context) {
	res := s.ctrl.Submit(ctx)
	switch res.Outcome {
	case form.OutcomeRefused:
		fmt.Fprintln(s.out, "fill the required fields first")
	case form.OutcomeAuthenticated:
		if res.User != nil {
			fmt.Fprintf(s.out, "signed in as %s (%s)\n", res.User.Name, res.User.Email)
		}
	}
	s.status()
}

func (s *shell) change(ctx context.Context) {
	user, err := s.api.Me(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "[error] sign in first: %v\n", err)
		return
	}
	s.ctrl.BeginPasswordChange(user.Email)
	s.submit(ctx)
}

func (s *shell) me(ctx context.Context) {
	user, err := s.api.Me(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "[error] %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s (%s), secret question %s\n", user.Name, user.Email, user.SecretQuestion)
}

func (s *shell) activity(ctx context.Context) {
	events, err := s.api.Events(ctx, 10)
	if err != nil {
		fmt.Fprintf(s.out, "[error] %v\n", err)
		return
	}
	if len(events) == 0 {
		fmt.Fprintln(s.out, "no activity")
	}
	for _, e := range events {
		fmt.Fprintf(s.out, "%s  %-5s %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Level, e.Message)
	}
}
