package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/intentchat/chatbot"
)

// chatService is the part of *chatbot.Service the commands use.
type chatService interface {
	Respond(ctx context.Context, text string) (chatbot.Reply, error)
	Resolve(ctx context.Context, text string) ([]chatbot.Candidate, error)
	Evaluate(ctx context.Context, progress func(done, total int)) (chatbot.Evaluation, error)
	Close() error
}

var openService = func(ctx context.Context, cfg chatbot.Config, logger *log.Logger) (chatService, error) {
	svc, err := chatbot.NewService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("chatbot-cli: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "chatbot-cli",
		Short:         "Talk to, batch-run and evaluate the intent chatbot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Write service logs to stderr")

	cmd.AddCommand(
		newChatCmd(opts),
		newPredictCmd(opts),
		newBatchCmd(opts),
		newEvaluateCmd(opts),
		newInitCmd(opts),
	)
	return cmd
}

// load reads the config and opens the service. Logs go to stderr only with --verbose.
func (o *rootOptions) load(cmd *cobra.Command) (chatService, chatbot.Config, error) {
	cfg, err := chatbot.LoadConfig(strings.TrimSpace(o.configPath))
	if err != nil {
		return nil, cfg, fmt.Errorf("load config: %w", err)
	}
	var w io.Writer = io.Discard
	if o.verbose {
		w = cmd.ErrOrStderr()
	}
	logger := log.New(w, "", log.LstdFlags)
	svc, err := openService(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, cfg, fmt.Errorf("init chatbot: %w", err)
	}
	return svc, cfg, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTTY(f)
}
