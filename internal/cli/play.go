package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/domain"
	"sanskrit-quiz-service/internal/infra/memory"
	"sanskrit-quiz-service/internal/infra/remote"
)

type playOptions struct {
	game    string
	baseURL string
	token   string
	userID  string
	verbose bool
	timeout time.Duration
}

// NewPlayCmd plays one game in the terminal against a running backend.
func NewPlayCmd() *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz round in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			setupLogging(os.Getenv("LOG_LEVEL"))
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.game, "game", "tense", "game to play: tense, verb or number")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "backend base URL")
	cmd.Flags().StringVar(&opts.token, "token", os.Getenv("QUIZ_TOKEN"), "bearer token for score updates")
	cmd.Flags().StringVar(&opts.userID, "user-id", os.Getenv("QUIZ_USER_ID"), "user id the final score is saved for")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "explain wrong person/number guesses")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP timeout per request")
	return cmd
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, opts playOptions) error {
	game, err := domain.ParseGame(opts.game)
	if err != nil {
		return fmt.Errorf("%w: %q", err, opts.game)
	}
	cfg, err := app.ConfigFor(game, opts.verbose)
	if err != nil {
		return err
	}

	client := remote.NewClient(opts.baseURL, &http.Client{Timeout: opts.timeout})
	source, err := remote.Sources(client, nil)(game)
	if err != nil {
		return err
	}
	round, err := app.NewRound(cfg, app.RoundDeps{
		Source:   source,
		Reporter: remote.NewScoreClient(client, app.StaticCredentials(opts.token)),
		Progress: memory.NewProgressStore(),
		Identity: app.StaticIdentity(opts.userID),
	})
	if err != nil {
		return err
	}
	defer round.WaitReports()

	session := app.NewPlaySession(uuid.NewString(), opts.userID, round)
	state, err := session.Apply(ctx, app.Action{Type: app.ActionStart})
	render(out, cfg, state, err)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return nil
		}
		if line == "?" || line == "help" {
			printHelp(out)
			continue
		}
		action, err := parseAction(line, session.Round().State())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		state, err := session.Apply(ctx, action)
		render(out, cfg, state, err)
	}
}

var commandAliases = map[string]app.ActionType{
	"s":      app.ActionSubmit,
	"submit": app.ActionSubmit,
	"h":      app.ActionHint,
	"hint":   app.ActionHint,
	"n":      app.ActionNext,
	"next":   app.ActionNext,
	"a":      app.ActionPlayAgain,
	"again":  app.ActionPlayAgain,
	"r":      app.ActionRetry,
	"retry":  app.ActionRetry,
	"state":  app.ActionState,
}

// parseAction maps a typed line onto an action. Anything that is not a
// command selects an option: "<field> <value>", a bare option value, or
// the option's number when the question has a single field.
func parseAction(line string, state domain.RoundState) (app.Action, error) {
	if t, ok := commandAliases[strings.ToLower(line)]; ok {
		return app.Action{Type: t}, nil
	}
	q := state.Question
	if q == nil {
		return app.Action{}, fmt.Errorf("unknown command %q, type ? for help", line)
	}

	if parts := strings.Fields(line); len(parts) == 2 {
		f := domain.Field(strings.ToLower(parts[0]))
		if _, ok := q.Options[f]; ok {
			return app.Action{Type: app.ActionSelect, Field: f, Value: parts[1]}, nil
		}
	}
	if n, err := strconv.Atoi(line); err == nil && len(q.Fields) == 1 {
		opts := q.Options[q.Fields[0]]
		if n < 1 || n > len(opts) {
			return app.Action{}, fmt.Errorf("choose an option between 1 and %d", len(opts))
		}
		return app.Action{Type: app.ActionSelect, Field: q.Fields[0], Value: opts[n-1]}, nil
	}
	for _, f := range q.Fields {
		for _, o := range q.Options[f] {
			if strings.EqualFold(o, line) {
				return app.Action{Type: app.ActionSelect, Field: f, Value: o}, nil
			}
		}
	}
	return app.Action{}, fmt.Errorf("unknown option %q, type ? for help", line)
}

func render(out io.Writer, cfg app.GameConfig, state domain.RoundState, err error) {
	if err != nil {
		fmt.Fprintf(out, "! %v\n", err)
	}
	switch state.Phase {
	case domain.PhaseLoading:
		fmt.Fprintln(out, "Loading...")
		return
	case domain.PhaseFailed:
		fmt.Fprintf(out, "%s\nType r to retry or q to quit.\n", state.Error)
		return
	case domain.PhaseFinished:
		fmt.Fprintf(out, "Round complete. Score: %d/%d\n", state.Score, state.MaxScore)
		if state.Error != "" {
			fmt.Fprintln(out, state.Error)
		}
		fmt.Fprintln(out, "Type a to play again or q to quit.")
		return
	}

	fmt.Fprintf(out, "\nQuestion %d/%d  Score: %d/%d", state.Index+1, state.Total, state.Score, state.MaxScore)
	if state.ConfirmedTotal != nil {
		fmt.Fprintf(out, "  Total: %d", *state.ConfirmedTotal)
	}
	fmt.Fprintln(out)
	if q := state.Question; q != nil {
		fmt.Fprintf(out, "  %s\n", q.Prompt)
		for _, f := range q.Fields {
			label := cfg.FieldLabels[f]
			if label == "" {
				label = "Options"
			}
			fmt.Fprintf(out, "  %s:", label)
			for i, o := range q.Options[f] {
				mark := " "
				if state.Guess[f] == o {
					mark = "*"
				}
				fmt.Fprintf(out, " %s%d) %s", mark, i+1, o)
			}
			fmt.Fprintln(out)
		}
	}
	if state.Feedback != "" {
		fmt.Fprintln(out, state.Feedback)
	}
	if state.Hint != "" {
		fmt.Fprintf(out, "Hint: %s\n", strings.TrimPrefix(state.Hint, "Hint: "))
	}
	if state.Error != "" {
		fmt.Fprintf(out, "! %s\n", state.Error)
	}
}

func printHelp(out io.Writer) {
	names := make([]string, 0, len(commandAliases))
	for k := range commandAliases {
		if len(k) > 1 {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Select an option by number, by value, or as \"<field> <value>\".\nCommands: %s, quit\n", strings.Join(names, ", "))
}
