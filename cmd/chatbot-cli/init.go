package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/intentchat/chatbot"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.json and a starter intent file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(root.configPath)
			if path == "" {
				path = "config.json"
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			var cfg chatbot.Config
			cfg.ApplyDefaults()
			if err := chatbot.SaveConfig(path, cfg); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", path)

			// Artifact paths in the file are relative to it; reload to resolve them.
			cfg, err := chatbot.LoadConfig(path)
			if err != nil {
				return fmt.Errorf("reload config: %w", err)
			}
			created, err := chatbot.EnsureIntentFile(cfg.Artifacts.IntentsPath, chatbot.DefaultIntents())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "Wrote starter intents to %s\n", cfg.Artifacts.IntentsPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
