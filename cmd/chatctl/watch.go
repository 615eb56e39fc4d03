package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/chat-session-gateway/internal/bootstrap"
	"github.com/target/chat-session-gateway/internal/client/apiclient"
	"github.com/target/chat-session-gateway/internal/client/expiry"
	"golang.org/x/sync/errgroup"
)

var errStopWatch = errors.New("watch finished")

const expiredPromptText = "Your session has expired. Enter 'l' to log in or 's' to sign up.\n"

type stderrPrompter struct {
	w io.Writer
}

func (p stderrPrompter) ShowExpiredPrompt(context.Context) {
	_ = writef(p.w, expiredPromptText)
}

// printNavigator prints the absolute URL the user should open.
type printNavigator struct {
	w    io.Writer
	base string
}

func (n *printNavigator) Navigate(_ context.Context, path string) error {
	return writef(n.w, "%s%s\n", strings.TrimRight(n.base, "/"), path)
}

func runWatch(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(cc.Stderr)
	interval := fs.Duration("interval", cc.Config.WatchInterval, "poll interval")
	once := fs.Bool("once", false, "exit after the first navigation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *interval <= 0 {
		return errors.New("interval must be positive")
	}

	rt, err := bootstrap.BuildClientRuntime(bootstrap.ClientDeps{
		Config:    cc.Config,
		Prompter:  stderrPrompter{w: cc.Stderr},
		Navigator: &printNavigator{w: cc.Stdout, base: cc.Config.BaseURL},
		Logger:    cc.Logger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	// The scanner goroutine is not joined; a blocked stdin read must not hold
	// up shutdown.
	answers := readAnswers(cc.Stdin)

	g, gctx := errgroup.WithContext(cc.Ctx)
	g.Go(func() error {
		return rt.Coordinator.Run(gctx, rt.Bus)
	})
	g.Go(func() error {
		return poll(gctx, rt.API, cc.Config.WatchPaths, *interval, cc.Logger)
	})
	g.Go(func() error {
		return answerPrompts(gctx, rt.Coordinator, answers, *once, cc.Stderr)
	})

	err = g.Wait()
	if errors.Is(err, errStopWatch) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// poll requests every path concurrently once per interval, starting at once.
// Failures are logged; a 401 reaches the coordinator through the client's transport.
func poll(ctx context.Context, api *apiclient.Client, paths []string, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var round errgroup.Group
		for _, path := range paths {
			round.Go(func() error {
				_, err := api.Get(ctx, path, nil)
				switch {
				case err == nil, ctx.Err() != nil:
				case apiclient.HasStatus(err, http.StatusUnauthorized):
					logger.Debug("session rejected", "path", path)
				default:
					logger.Warn("poll failed", "path", path, "error", err)
				}
				return nil
			})
		}
		_ = round.Wait()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readAnswers(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			out <- strings.ToLower(strings.TrimSpace(sc.Text()))
		}
	}()
	return out
}

func answerPrompts(ctx context.Context, coord *expiry.Coordinator, answers <-chan string, once bool, stderr io.Writer) error {
	for {
		var answer string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a, ok := <-answers:
			if !ok {
				answers = nil
				continue
			}
			answer = a
		}

		var dest expiry.Destination
		switch answer {
		case "l", "login":
			dest = expiry.ToLogin
		case "s", "signup", "register":
			dest = expiry.ToRegister
		case "":
			continue
		default:
			_ = writef(stderr, "unrecognized answer %q; enter 'l' or 's'\n", answer)
			continue
		}

		if coord.State() != expiry.Notified {
			_ = writef(stderr, "no session prompt is active\n")
			continue
		}
		if err := coord.Acknowledge(ctx, dest); err != nil {
			return err
		}
		if once {
			return errStopWatch
		}
	}
}
