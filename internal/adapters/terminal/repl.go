// Package terminal is an interactive chat front-end that drives the same
// conversation service as the HTTP API.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/tripmate/internal/app/catalog"
	"github.com/PabloGalante/tripmate/internal/app/conversation"
	"github.com/PabloGalante/tripmate/internal/domain"
	"github.com/PabloGalante/tripmate/internal/export"
)

const helpText = `Commands:
  /questions                 list the quick questions
  /q N                       ask quick question N
  /retry                     resend the last message after a failed reply
  /config key=value ...      change style, budget, days or companions
  /show                      print the conversation so far
  /reset [--all]             clear the chat (--all also drops the system instruction)
  /export [format] [path]    save the transcript (txt, plain, md, json, yaml)
  /convert AMOUNT FROM TO    convert between currencies
  /help                      show this help
  /quit                      leave`

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

type REPL struct {
	svc       *conversation.Service
	in        *bufio.Scanner
	out       io.Writer
	st        styles
	exportDir string
	now       func() time.Time

	session *conversation.Session
}

type Option func(*REPL)

// WithExportDir sets where /export writes when no path is given.
func WithExportDir(dir string) Option {
	return func(r *REPL) { r.exportDir = dir }
}

func NewREPL(svc *conversation.Service, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		svc:       svc,
		in:        bufio.NewScanner(in),
		out:       out,
		st:        newStyles(out),
		exportDir: ".",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts a session with cfg and reads lines until /quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context, cfg domain.TravelConfig) error {
	out, err := r.svc.StartSession(ctx, conversation.StartSessionInput{Config: cfg})
	if err != nil {
		return err
	}
	r.session = out.Session
	defer func() { _ = r.svc.EndSession(context.Background(), r.session.ID) }()

	r.printBanner()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, r.st.user.Render("you> "))
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}

		err := r.handleLine(ctx, r.in.Text())
		if errors.Is(err, errQuit) {
			fmt.Fprintln(r.out, r.st.meta.Render("Have a great trip!"))
			return nil
		}
		if err != nil {
			r.printError(err)
		}
	}
}

func (r *REPL) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		if line == "" {
			return nil
		}
		return r.send(ctx, line)
	}

	fields := strings.Fields(line)
	args := fields[1:]
	switch fields[0] {
	case "/quit", "/exit":
		return errQuit
	case "/help":
		fmt.Fprintln(r.out, r.st.hint.Render(helpText))
	case "/questions":
		r.printQuestions()
	case "/q":
		return r.quickQuestion(ctx, args)
	case "/retry":
		return r.retry(ctx)
	case "/config":
		return r.updateConfig(ctx, args)
	case "/show":
		r.printConversation(r.session.Manager.Conversation())
	case "/reset":
		keepSystem := !(len(args) > 0 && args[0] == "--all")
		if _, err := r.svc.ResetSession(ctx, r.session.ID, keepSystem); err != nil {
			return err
		}
		fmt.Fprintln(r.out, r.st.meta.Render("Conversation cleared."))
	case "/export":
		return r.export(args)
	case "/convert":
		return r.convert(args)
	default:
		return fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return nil
}

func (r *REPL) send(ctx context.Context, text string) error {
	_, err := r.svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID:  r.session.ID,
		Text:       text,
		OnFragment: r.streamer(),
	})
	return r.finishTurn(err)
}

func (r *REPL) retry(ctx context.Context) error {
	_, err := r.svc.RetryTurn(ctx, conversation.RetryInput{
		SessionID:  r.session.ID,
		OnFragment: r.streamer(),
	})
	return r.finishTurn(err)
}

func (r *REPL) quickQuestion(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /q N")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid question number %q", args[0])
	}

	text, err := catalog.QuickQuestionText(index, r.session.Manager.Config())
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, r.st.user.Render("you> ")+text)

	_, err = r.svc.AskQuickQuestion(ctx, conversation.QuickQuestionInput{
		SessionID:  r.session.ID,
		Index:      index,
		OnFragment: r.streamer(),
	})
	return r.finishTurn(err)
}

// streamer prints the assistant label on the first fragment, then each
// fragment as it arrives.
func (r *REPL) streamer() conversation.FragmentFunc {
	started := false
	return func(fragment string) {
		if !started {
			started = true
			fmt.Fprint(r.out, r.st.assistant.Render("tripmate> "))
		}
		fmt.Fprint(r.out, fragment)
	}
}

func (r *REPL) finishTurn(err error) error {
	fmt.Fprintln(r.out)
	return err
}

func (r *REPL) updateConfig(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.printConfig(r.session.Manager.Config())
		return nil
	}

	cfg := r.session.Manager.Config()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		if err := applySetting(&cfg, key, value); err != nil {
			return err
		}
	}

	if _, err := r.svc.UpdateConfig(ctx, r.session.ID, cfg); err != nil {
		return err
	}
	r.printConfig(cfg)
	return nil
}

func applySetting(cfg *domain.TravelConfig, key, value string) error {
	switch strings.ToLower(key) {
	case "style":
		style, err := domain.ParseTravelStyle(value)
		if err != nil {
			return err
		}
		cfg.Style = style
		return nil
	case "budget", "days", "companions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number, got %q", key, value)
		}
		switch strings.ToLower(key) {
		case "budget":
			cfg.BudgetPerPerson = n
		case "days":
			cfg.Days = n
		default:
			cfg.Companions = n
		}
		return nil
	default:
		return fmt.Errorf("unknown setting %q (style, budget, days, companions)", key)
	}
}

func (r *REPL) export(args []string) error {
	format := ""
	if len(args) > 0 {
		format = args[0]
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	at := r.now()
	path := filepath.Join(r.exportDir, export.Filename(exporter, at))
	if len(args) > 1 {
		path = args[1]
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	doc := export.NewDocument(r.session.ID, r.session.Manager.Config(), r.session.Manager.Conversation(), at)
	if err := exporter.Export(doc, f); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Fprintln(r.out, r.st.meta.Render("Saved "+path))
	return nil
}

func (r *REPL) convert(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: /convert AMOUNT FROM TO")
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	conv, err := catalog.Convert(amount, args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s = %s\n", catalog.FormatMoney(conv.Amount, conv.From), conv.Formatted)
	return nil
}

func (r *REPL) printBanner() {
	fmt.Fprintln(r.out, r.st.banner.Render("Tripmate travel planner"))
	r.printConfig(r.session.Manager.Config())
	if !r.session.Manager.Configured() {
		fmt.Fprintln(r.out, r.st.err.Render("No API key configured: set TRIPMATE_API_KEY to chat."))
	}
	fmt.Fprintln(r.out, r.st.hint.Render("Type a message, /questions for ideas or /help."))
}

func (r *REPL) printConfig(cfg domain.TravelConfig) {
	fmt.Fprintln(r.out, r.st.meta.Render(fmt.Sprintf(
		"%s trip • %d days • %d USD per person • party of %d",
		cfg.Style, cfg.Days, cfg.BudgetPerPerson, cfg.Travellers())))
}

func (r *REPL) printQuestions() {
	for _, q := range catalog.QuickQuestions(r.session.Manager.Config()) {
		fmt.Fprintf(r.out, "%s %s\n", r.st.hint.Render(fmt.Sprintf("[%d]", q.Index)), q.Label)
	}
}

func (r *REPL) printConversation(conv domain.Conversation) {
	for _, m := range conv {
		switch m.Role {
		case domain.RoleUser:
			fmt.Fprintln(r.out, r.st.user.Render(m.Role.Label()+":")+" "+m.Content)
		case domain.RoleAssistant:
			fmt.Fprintln(r.out, r.st.assistant.Render(m.Role.Label()+":")+" "+m.Content)
		default:
			fmt.Fprintln(r.out, r.st.system.Render("(system instruction active)"))
		}
	}
}

func (r *REPL) printError(err error) {
	fmt.Fprintln(r.out, r.st.err.Render("error: ")+err.Error())
}
