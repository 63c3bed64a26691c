package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/intentchat/chatbot"
)

const fyneAppID = "studio.yashubu.intentchat"

// Run loads the chatbot described by the config file and starts the desktop UI.
func Run(configPath string) error {
	a := fyneapp.NewWithID(fyneAppID)

	logs := newLineBuffer(logLimit)
	logger := log.New(io.MultiWriter(os.Stdout, logs), "", log.LstdFlags)

	cfg, err := chatbot.LoadConfig(configPath)
	if err != nil {
		err = fmt.Errorf("load config: %w", err)
		showFatalError(a, err)
		return err
	}
	svc, err := chatbot.NewService(context.Background(), cfg, logger)
	if err != nil {
		err = fmt.Errorf("load chatbot: %w", err)
		showFatalError(a, err)
		return err
	}
	defer svc.Close()

	u := buildUI(a, svc, cfg.FallbackResponse, logs, logger)
	u.w.ShowAndRun()
	return nil
}
