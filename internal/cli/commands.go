// Package cli implements the investchat terminal client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"investchat/pkg/chat"
)

const (
	defaultServer  = "http://127.0.0.1:8000"
	defaultUserID  = "user_123"
	defaultTimeout = 60 * time.Second
)

type rootOptions struct {
	server  string
	userID  string
	timeout time.Duration
	now     func() time.Time
}

func (o *rootOptions) client() *Client {
	return NewClient(o.server, o.timeout)
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "investchat",
		Short: "Terminal client for the investchat assistant",
		Long: `investchat talks to a running investchat server.
Ask one-off questions, list recommendation cards, or start an interactive chat.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "Server base URL")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", defaultUserID, "User id sent with each question")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Request timeout")

	rootCmd.AddCommand(newAskCmd(opts))
	rootCmd.AddCommand(newRecommendationsCmd(opts))
	rootCmd.AddCommand(newChatCmd(opts))
	rootCmd.AddCommand(newHealthCmd(opts))

	return rootCmd
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question",
		Example: `  investchat ask "Should I invest in FPT next week?"
  investchat ask What about gold`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			resp, err := opts.client().Ask(cmd.Context(), opts.userID, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderAnswer(resp))
			return nil
		},
	}
}

func newRecommendationsCmd(opts *rootOptions) *cobra.Command {
	var question string
	cmd := &cobra.Command{
		Use:     "recommendations",
		Aliases: []string{"recs"},
		Short:   "Show investment suggestion cards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.client().Recommendations(cmd.Context(), opts.userID, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderSuggestions(items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&question, "query", "q", "", "Question used to pick suggestions")
	return cmd
}

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := opts.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (relay mode: %s)\n", mode)
			return nil
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.
Type a question and press enter. Enter 1-3 to send a quick action, /quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runChat(ctx context.Context, opts *rootOptions, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client := opts.client()
	state := chat.NewState(opts.now())

	fmt.Fprintln(out, titleStyle.Render("investchat"))
	fmt.Fprintln(out, RenderMessage(state.Messages[0]))
	for i, action := range chat.QuickActions {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  %d) %s", i+1, action)))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, userStyle.Render("› "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "/quit", "/exit":
			return nil
		case "":
			continue
		}
		line = expandQuickAction(line)

		next, seq, err := chat.AppendUserMessage(state, line, opts.now())
		if err != nil {
			fmt.Fprintln(out, RenderError(err))
			continue
		}
		state = next

		resp, err := client.Ask(ctx, opts.userID, line)
		if err != nil {
			state = chat.ResetLoading(state)
			fmt.Fprintln(out, RenderError(err))
			continue
		}
		next, applied := chat.ApplyResponse(state, seq, chat.FormatAnalysis(resp), opts.now())
		if !applied {
			continue
		}
		state = next
		fmt.Fprintln(out, RenderMessage(state.Messages[len(state.Messages)-1]))
		fmt.Fprintln(out, RenderSuggestions(resp.InvestmentSuggestions))
	}
}

// expandQuickAction maps "1".."n" to the matching quick action prompt.
func expandQuickAction(line string) string {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(chat.QuickActions) {
		return line
	}
	return chat.QuickActions[n-1]
}
