package console

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pixil98/sms-tracker/internal/messaging"
	"github.com/pixil98/sms-tracker/internal/snapshot"
	"github.com/pixil98/sms-tracker/internal/storage"
	"github.com/pixil98/sms-tracker/internal/tracker"
)

// Subscriber delivers messages published on a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Runner serves operator sessions against one tracker.
type Runner struct {
	tracker    *tracker.Tracker
	slots      storage.Storer[*snapshot.Snapshot]
	subscriber Subscriber
	newSlotID  func() string
	commands   map[string]*command
	order      []*command
}

type RunnerOpt func(*Runner)

// WithSubscriber announces boss gate changes to every open session.
func WithSubscriber(s Subscriber) RunnerOpt {
	return func(r *Runner) {
		r.subscriber = s
	}
}

// WithSlotIDs overrides how unnamed save slots are named.
func WithSlotIDs(f func() string) RunnerOpt {
	return func(r *Runner) {
		r.newSlotID = f
	}
}

func NewRunner(t *tracker.Tracker, slots storage.Storer[*snapshot.Snapshot], opts ...RunnerOpt) *Runner {
	r := &Runner{
		tracker:   t,
		slots:     slots,
		newSlotID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.register(builtinCommands()...)
	return r
}

func (r *Runner) register(cmds ...*command) {
	if r.commands == nil {
		r.commands = map[string]*command{}
	}
	for _, c := range cmds {
		r.order = append(r.order, c)
		r.commands[c.name] = c
		for _, a := range c.aliases {
			r.commands[a] = c
		}
	}
}

// session is one operator connection.
type session struct {
	runner *Runner
	w      io.Writer
	remote string
	lines  chan string
	done   chan struct{}
	quit   bool
}

// RunSession reads commands from rw until the operator quits, the connection
// closes or ctx ends. Bad input is reported to the operator; any other
// command failure ends the session.
func (r *Runner) RunSession(ctx context.Context, rw io.ReadWriter, remote string) error {
	s := &session{
		runner: r,
		w:      rw,
		remote: remote,
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	defer close(s.done)

	inputErr := make(chan error, 1)
	go s.readInput(rw, inputErr)

	msgs := make(chan string, 8)
	if r.subscriber != nil {
		unsubscribe, err := r.subscriber.Subscribe(messaging.SubjectGate, func(data []byte) {
			select {
			case msgs <- gateAnnouncement(data):
			default:
			}
		})
		if err != nil {
			slog.WarnContext(ctx, "subscribing to gate events", "remote", remote, "error", err)
		} else {
			defer unsubscribe()
		}
	}

	if err := s.writeLine(colorHeading.Sprint("Sunshine progress tracker") + "\nType 'help' for a list of commands."); err != nil {
		return err
	}
	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-msgs:
			if err := s.writeLine("\n" + msg); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-s.lines:
			if !ok {
				select {
				case err := <-inputErr:
					return err
				default:
					return nil
				}
			}

			if err := s.exec(ctx, line); err != nil {
				return err
			}
			if s.quit {
				return s.writeLine("Goodbye!")
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

func (s *session) readInput(r io.Reader, errCh chan<- error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case s.lines <- scanner.Text():
		case <-s.done:
			return
		}
	}
	errCh <- scanner.Err()
	close(s.lines)
}

// exec runs one input line. Only system failures are returned.
func (s *session) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToLower(fields[0])
	cmd, ok := s.runner.commands[name]
	if !ok {
		return s.writeLine(fmt.Sprintf("Unknown command %q. Type 'help' for a list of commands.", fields[0]))
	}

	args := fields[1:]
	if len(args) < cmd.minArgs {
		return s.writeLine("Usage: " + cmd.usage)
	}

	err := cmd.run(ctx, s, args)
	if err == nil {
		return nil
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return s.writeLine(userErr.Message)
	}

	slog.ErrorContext(ctx, "console command failed", "command", cmd.name, "remote", s.remote, "error", err)
	return fmt.Errorf("running %s: %w", cmd.name, err)
}

// confirm asks a yes/no question and reads the answer from the session input.
func (s *session) confirm(ctx context.Context, question string) (bool, error) {
	for {
		if _, err := io.WriteString(s.w, question+" [y/n] "); err != nil {
			return false, err
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case line, ok := <-s.lines:
			if !ok {
				return false, io.EOF
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			}
			if err := s.writeLine("Enter 'yes' or 'no'."); err != nil {
				return false, err
			}
		}
	}
}

func (s *session) prompt() error {
	c := s.runner.tracker.Report().World
	_, err := fmt.Fprintf(s.w, "[%d/%d] > ", c.ShinesFound, c.ShinesTotal)
	return err
}

func (s *session) writeLine(msg string) error {
	_, err := io.WriteString(s.w, msg+"\n")
	return err
}

func gateAnnouncement(data []byte) string {
	var ev messaging.GateEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return colorDenied.Sprint("Received an unreadable gate event.")
	}
	if ev.Open {
		return colorDone.Sprint("Corona Mountain is open!")
	}
	return colorDenied.Sprint("Corona Mountain has closed again.")
}
