// Package plain runs the game as a line-oriented dialogue over an
// io.Reader and io.Writer, for terminals where the TUI is unwanted.
package plain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/trivia/internal/game"
	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/trivia"
	"github.com/abhisek/trivia/internal/ui/components"
)

// ErrNoCategory is returned when input ends before a category is chosen.
var ErrNoCategory = errors.New("no category chosen")

// Options tunes a Driver. Zero values use the real clock.
type Options struct {
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// Timeout bounds each source request.
	Timeout time.Duration

	// NewTicker returns the countdown tick channel and its stop function.
	NewTicker func(time.Duration) (<-chan time.Time, func())

	// After returns a channel that fires once the reveal window is over.
	After func(time.Duration) <-chan time.Time
}

// Driver plays games with one controller until the player stops.
type Driver struct {
	ctrl  *game.Controller
	src   trivia.Source
	out   io.Writer
	opts  Options
	log   *zap.Logger
	lines <-chan string
}

// New creates a driver writing to out.
func New(ctrl *game.Controller, src trivia.Source, out io.Writer, opts Options) *Driver {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.NewTicker == nil {
		opts.NewTicker = func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		}
	}
	if opts.After == nil {
		opts.After = time.After
	}
	return &Driver{ctrl: ctrl, src: src, out: out, opts: opts, log: opts.Logger.Named("plain")}
}

// readLines streams trimmed input lines until EOF.
func readLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			ch <- strings.TrimSpace(sc.Text())
		}
	}()
	return ch
}

// Run plays until the player declines a replay, quits a game or ctx ends.
// Once in is exhausted, remaining questions run out their timers.
func (d *Driver) Run(ctx context.Context, in io.Reader) error {
	d.lines = readLines(in)

	if d.ctrl.Settings().Category == "" {
		if err := d.chooseCategory(ctx); err != nil {
			return err
		}
	}

	for {
		if err := d.start(ctx); err != nil {
			return err
		}
		quit, err := d.playGame(ctx)
		if err != nil {
			return err
		}
		if quit {
			d.opts.Metrics.GameAbandoned()
			fmt.Fprintln(d.out, "Game abandoned.")
			return nil
		}
		d.opts.Metrics.GameFinished()
		d.printResults()

		again, err := d.askReplay(ctx)
		if err != nil || !again {
			return err
		}
		_ = d.ctrl.Replay()
	}
}

// nextLine waits for one input line. ok is false once input is exhausted.
func (d *Driver) nextLine(ctx context.Context) (string, bool, error) {
	if d.lines == nil {
		return "", false, nil
	}
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-d.lines:
		if !ok {
			d.lines = nil
		}
		return line, ok, nil
	}
}

func (d *Driver) chooseCategory(ctx context.Context) error {
	lctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()
	if err := d.ctrl.LoadCategories(lctx, d.src); err != nil {
		fmt.Fprintln(d.out, d.ctrl.Err())
		return err
	}

	cats := d.ctrl.Categories()
	for i, c := range cats {
		fmt.Fprintf(d.out, "%3d) %s\n", i+1, c.Name)
	}
	for {
		fmt.Fprintf(d.out, "Choose a category [1-%d]: ", len(cats))
		line, ok, err := d.nextLine(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(d.out)
			return ErrNoCategory
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(cats) {
			fmt.Fprintln(d.out, "Please enter a number from the list.")
			continue
		}
		key := cats[n-1].Key()
		return d.ctrl.UpdateSettings(func(s trivia.Settings) trivia.Settings {
			return s.WithCategory(key)
		})
	}
}

func (d *Driver) start(ctx context.Context) error {
	fmt.Fprintln(d.out, "Loading questions...")
	sctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()
	if err := d.ctrl.StartWith(sctx, d.src); err != nil {
		fmt.Fprintln(d.out, d.ctrl.Err())
		return err
	}
	d.opts.Metrics.GameStarted()
	sess := d.ctrl.Session()
	d.log.Info("game started",
		zap.String("session", sess.ID.String()),
		zap.String("category", sess.Settings.Category),
		zap.Int("questions", sess.Total()))
	return nil
}

// playGame runs every question of the current session. quit is true when
// the player left early.
func (d *Driver) playGame(ctx context.Context) (bool, error) {
	for d.ctrl.State() == game.StatePlaying {
		p, err := d.ctrl.Present()
		if err != nil {
			return false, err
		}
		quit, err := d.playQuestion(ctx, p)
		if err != nil {
			return false, err
		}
		if quit {
			return true, d.ctrl.Quit()
		}
	}
	return false, nil
}

func (d *Driver) playQuestion(ctx context.Context, p *game.Presenter) (bool, error) {
	q := p.Question()
	sess := d.ctrl.Session()

	fmt.Fprintf(d.out, "\nQuestion %d of %d  [%s, %s]\n", p.Index()+1, sess.Total(), q.Category, q.Difficulty)
	fmt.Fprintln(d.out, q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(d.out, "  %s) %s\n", optionLabel(i), opt)
	}
	fmt.Fprintf(d.out, "Answer within %ds (q to quit): ", int(p.Limit().Seconds()))

	ticks, stop := d.opts.NewTicker(game.TickInterval)
	defer stop()

	var ev game.AnswerEvent
	for !p.Revealed() {
		select {
		case <-ctx.Done():
			return false, ctx.Err()

		case line, ok := <-d.lines:
			if !ok {
				d.lines = nil
				continue
			}
			if strings.EqualFold(line, "q") {
				fmt.Fprintln(d.out)
				return true, nil
			}
			i, valid := parseAnswer(line, len(q.Options))
			if !valid {
				fmt.Fprintf(d.out, "Type a letter A-%s or a number 1-%d: ", optionLabel(len(q.Options)-1), len(q.Options))
				continue
			}
			ev, _ = p.SubmitIndex(i)

		case <-ticks:
			var expired bool
			if ev, expired = p.Tick(p.Token()); expired {
				fmt.Fprintln(d.out)
				continue
			}
			if rem := int(p.Remaining().Seconds()); rem == 10 || rem == 5 {
				fmt.Fprintf(d.out, "(%ds left) ", rem)
			}
		}
	}
	stop()

	switch {
	case ev.Correct:
		fmt.Fprintln(d.out, "Correct!")
	case ev.Selected == "":
		fmt.Fprintf(d.out, "Time's up! The correct answer was: %s\n", q.CorrectAnswer)
	default:
		fmt.Fprintf(d.out, "Incorrect! The correct answer was: %s\n", q.CorrectAnswer)
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-d.opts.After(d.ctrl.RevealDelay()):
	}

	if err := d.ctrl.Record(ev); err != nil {
		return false, err
	}
	d.opts.Metrics.ObserveAnswer(ev.Selected, ev.Correct, ev.TimeUsed)
	return false, nil
}

func (d *Driver) printResults() {
	sum, ok := d.ctrl.Summary()
	if !ok {
		return
	}
	d.log.Info("game finished", zap.String("score", sum.ScoreLine()), zap.Int("percent", sum.Percent))

	fmt.Fprintf(d.out, "\nScore: %s (%d%%) %s\n\n", sum.ScoreLine(), sum.Percent, trivia.Verdict(sum.Percent))
	for i, rec := range sum.Review {
		mark := "✓"
		if !rec.Correct {
			mark = "✗"
		}
		answer := rec.Selected
		if rec.TimedOut() {
			answer = "(no answer)"
		}
		fmt.Fprintf(d.out, "%s %d. %s\n   You: %s", mark, i+1, rec.Question.Prompt, answer)
		if !rec.Correct {
			fmt.Fprintf(d.out, "   Answer: %s", rec.Question.CorrectAnswer)
		}
		fmt.Fprintln(d.out)
	}
}

func (d *Driver) askReplay(ctx context.Context) (bool, error) {
	fmt.Fprint(d.out, "\nPlay again? [y/N]: ")
	line, ok, err := d.nextLine(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(d.out)
		return false, nil
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

func optionLabel(i int) string {
	if i >= 0 && i < len(components.OptionLabels) {
		return components.OptionLabels[i]
	}
	return strconv.Itoa(i + 1)
}

// parseAnswer maps "a".."d" or "1".."4" to an option index.
func parseAnswer(line string, n int) (int, bool) {
	line = strings.ToLower(line)
	if len(line) != 1 {
		return -1, false
	}
	var i int
	switch c := line[0]; {
	case c >= 'a' && c <= 'z':
		i = int(c - 'a')
	case c >= '1' && c <= '9':
		i = int(c - '1')
	default:
		return -1, false
	}
	if i >= n {
		return -1, false
	}
	return i, true
}
