package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/intentchat/chatbot"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot on stdin/stdout (/quit or EOF to leave)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()
			out := cmd.OutOrStdout()
			return chatLoop(cmd.Context(), svc, cfg.FallbackResponse, cmd.InOrStdin(), out, newPalette(isTerminal(out)))
		},
	}
}

func chatLoop(ctx context.Context, svc chatService, fallback string, in io.Reader, out io.Writer, p palette) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, p.paint(p.user, "You: "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		message := scanner.Text()
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if trimmed == "/quit" || trimmed == "/exit" {
			return nil
		}
		reply, err := svc.Respond(ctx, message)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(out, p.paint(p.bot, "Chatbot: ")+fallback)
			fmt.Fprintln(out, p.paint(p.warn, "  ("+err.Error()+")"))
			continue
		}
		fmt.Fprintln(out, p.paint(p.bot, "Chatbot: ")+reply.Text)
	}
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "predict TEXT...",
		Short: "Print the ranked intent candidates for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			text := strings.Join(args, " ")
			candidates, err := svc.Resolve(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			out := cmd.OutOrStdout()
			p := newPalette(isTerminal(out))
			printCandidates(out, p, candidates)
			return nil
		},
	}
}

func printCandidates(out io.Writer, p palette, candidates []chatbot.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(out, p.paint(p.meta, fmt.Sprintf("no intent above %g", chatbot.ConfidenceThreshold)))
		return
	}
	for i, c := range candidates {
		fmt.Fprintf(out, "%d. %s %s\n", i+1, c.Label, p.paint(p.meta, "("+c.Probability+")"))
	}
}

func isNoMatch(err error) bool {
	var unmatched *chatbot.UnmatchedTagError
	return errors.Is(err, chatbot.ErrNoCandidates) || errors.As(err, &unmatched)
}
