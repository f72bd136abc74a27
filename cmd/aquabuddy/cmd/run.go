package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/aquabuddy/internal/client"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/reminder"
	"github.com/templui/aquabuddy/internal/state"
	"github.com/templui/aquabuddy/internal/tracker"
)

const sessionHelp = `commands: log, undo, reset, status, history, next, help, quit`

// terminalBanner prints reminders into the session.
type terminalBanner struct {
	mu  sync.Mutex
	out io.Writer
}

func (b *terminalBanner) Show(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, "\n🔔 %s\n> ", message)
}

func (b *terminalBanner) Dismiss() {}

func RunCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session with adaptive reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cfg, func(_ *state.BoltStore, t *tracker.Tracker) error {
				return runSession(cmd.Context(), cfg, t, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

func runSession(ctx context.Context, cfg *config.ClientConfig, t *tracker.Tracker, in io.Reader, out io.Writer) error {
	api := client.New(cfg.ServerURL, cfg.PushToken)

	opts := []reminder.DispatcherOption{
		reminder.WithBanner(&terminalBanner{out: out}, func() bool { return true }),
	}
	if cfg.PushToken != "" {
		opts = append(opts, reminder.WithNotifier(api))
	}
	dispatcher := reminder.NewDispatcher(t, opts...)
	scheduler := reminder.NewScheduler(t, func() { dispatcher.Dispatch() })

	t.OnProgressChange(func() { scheduler.Rearm() })
	scheduler.Rearm()

	defer func() {
		scheduler.Stop()
		dispatcher.Wait()
		scheduleRemote(cfg, api, t)
	}()

	fmt.Fprintln(out, sessionHelp)
	fmt.Fprintln(out, scheduler.NextText())

	lines := readLines(ctx, in)

	for {
		fmt.Fprint(out, "> ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}

		switch line {
		case "":
		case "log":
			o, err := t.LogGlass()
			if err != nil && !errors.Is(err, tracker.ErrGoalAlreadyReached) {
				return err
			}
			printOutcome(out, o)
		case "undo":
			fmt.Fprint(out, "Undo your last glass? [y/N] ")
			yes, done := confirmLine(ctx, lines)
			if done {
				return nil
			}
			if !yes {
				continue
			}
			o, err := t.UndoGlass()
			if err != nil && !errors.Is(err, tracker.ErrNothingToUndo) {
				return err
			}
			fmt.Fprintln(out, o.Message)
		case "reset":
			fmt.Fprint(out, "Reset today's progress? [y/N] ")
			yes, done := confirmLine(ctx, lines)
			if done {
				return nil
			}
			if !yes {
				continue
			}
			o, err := t.ResetDay()
			if err != nil && !errors.Is(err, tracker.ErrNothingToReset) {
				return err
			}
			fmt.Fprintln(out, o.Message)
		case "status":
			printStatus(out, t.Status())
		case "history":
			recent := dispatcher.Recent()
			if len(recent) == 0 {
				fmt.Fprintln(out, "No notifications yet today")
			}
			for _, h := range recent {
				fmt.Fprintf(out, "%s: %s\n", h.Time.Format(time.Kitchen), h.Message)
			}
		case "next":
			fmt.Fprintln(out, scheduler.NextText())
		case "help":
			fmt.Fprintln(out, sessionHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n%s\n", line, sessionHelp)
		}
	}
}

// scheduleRemote hands the next reminder to the server so it still arrives
// after the session ends.
func scheduleRemote(cfg *config.ClientConfig, api *client.Client, t *tracker.Tracker) {
	if cfg.PushToken == "" {
		return
	}

	glasses, goal, base := t.ReminderInputs()
	delay := reminder.DelayFor(glasses, goal, base)
	if cfg.RemoteDelayMinutes > 0 {
		delay = float64(cfg.RemoteDelayMinutes)
	}

	pool := reminder.MessagePool(float64(glasses) / float64(max(goal, 1)))
	message := reminder.SystemOptions(pool[0], glasses, goal, time.Now()).Body

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := api.Schedule(ctx, reminder.NotificationTitle, message, delay)
	if err != nil {
		slog.Warn("failed to schedule remote reminder", "error", err)
		return
	}
	slog.Info("remote reminder scheduled", "at", res.ScheduledTime)
}

// readLines feeds trimmed input lines until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// confirmLine waits for a y/N answer. done is set when input ends or ctx is done.
func confirmLine(ctx context.Context, lines <-chan string) (yes, done bool) {
	select {
	case <-ctx.Done():
		return false, true
	case answer, ok := <-lines:
		if !ok {
			return false, true
		}
		answer = strings.ToLower(answer)
		return answer == "y" || answer == "yes", false
	}
}
