package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"yashubustudio/intentchat/chatbot"
)

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Replay the intent patterns and report top-1 accuracy per tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			var bar *progressbar.ProgressBar
			ev, err := svc.Evaluate(cmd.Context(), func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionSetDescription("evaluating"),
					)
				}
				_ = bar.Add(1)
			})
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			out := cmd.OutOrStdout()
			printEvaluation(out, newPalette(isTerminal(out)), ev)
			return nil
		},
	}
}

func printEvaluation(out io.Writer, p palette, ev chatbot.Evaluation) {
	if ev.Total == 0 {
		fmt.Fprintln(out, p.paint(p.warn, "The intent file has no patterns to evaluate."))
		return
	}
	for _, tag := range ev.Tags {
		if tag.Total == 0 {
			continue
		}
		line := fmt.Sprintf("%-24s %3d/%-3d", tag.Tag, tag.Hits, tag.Total)
		if tag.Hits < tag.Total {
			line = p.paint(p.warn, line)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "accuracy: %.2f%% (%d/%d)\n", ev.Accuracy()*100, ev.Hits, ev.Total)
}
