package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/intentchat/chatbot"
)

const (
	transcriptLimit = 500
	logLimit        = 300
)

// Responder answers one chat message.
type Responder interface {
	Respond(ctx context.Context, text string) (chatbot.Reply, error)
}

type uiState struct {
	responder Responder
	fallback  string
	logger    *log.Logger

	w          fyne.Window
	transcript *lineBuffer
	logs       *lineBuffer
	chatView   *widget.Entry
	logView    *widget.Entry
	input      *widget.Entry
	status     *widget.Label
	sendBtn    *widget.Button
	saveBtn    *widget.Button
}

func buildUI(a fyne.App, r Responder, fallback string, logs *lineBuffer, logger *log.Logger) *uiState {
	u := &uiState{
		responder:  r,
		fallback:   fallback,
		logger:     logger,
		transcript: newLineBuffer(transcriptLimit),
		logs:       logs,
	}
	if u.logs == nil {
		u.logs = newLineBuffer(logLimit)
	}
	u.w = a.NewWindow("Chatbot")

	u.chatView = widget.NewEntryWithData(u.transcript.binding)
	u.chatView.MultiLine = true
	u.chatView.Wrapping = fyne.TextWrapWord
	u.chatView.Disable()

	u.logView = widget.NewEntryWithData(u.logs.binding)
	u.logView.MultiLine = true
	u.logView.Wrapping = fyne.TextWrapWord
	u.logView.SetPlaceHolder("log")
	u.logView.Disable()

	u.input = widget.NewEntry()
	u.input.SetPlaceHolder("Type a message")
	u.input.OnSubmitted = func(string) { u.onSend() }

	u.sendBtn = widget.NewButtonWithIcon("Send", theme.MailSendIcon(), func() { u.onSend() })
	u.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { u.onSaveTranscript() })
	u.status = widget.NewLabel("")

	inputRow := container.NewBorder(nil, nil, nil, container.NewHBox(u.sendBtn, u.saveBtn), u.input)
	split := container.NewVSplit(u.chatView, u.logView)
	split.Offset = 0.75

	u.w.SetContent(container.NewBorder(nil, container.NewVBox(inputRow, u.status), nil, nil, split))
	u.w.Resize(fyne.NewSize(640, 720))
	u.w.Canvas().Focus(u.input)
	return u
}

func (u *uiState) onSend() {
	message := u.input.Text
	u.input.SetText("")
	if strings.TrimSpace(message) == "" {
		return
	}
	u.transcript.Append("You: " + message)

	reply, err := u.responder.Respond(context.Background(), message)
	if err != nil {
		u.transcript.Append("Chatbot: " + u.fallback)
		u.status.SetText(describeFailure(err))
		u.logf("respond to %q: %v", message, err)
		return
	}
	u.transcript.Append("Chatbot: " + reply.Text)
	if len(reply.Candidates) > 0 {
		top := reply.Candidates[0]
		u.status.SetText(fmt.Sprintf("%s (%.3f)", top.Label, top.Score()))
	}
}

func describeFailure(err error) string {
	var unmatched *chatbot.UnmatchedTagError
	switch {
	case errors.Is(err, chatbot.ErrNoCandidates):
		return "No intent was confident enough"
	case errors.As(err, &unmatched):
		return fmt.Sprintf("No response configured for %q", unmatched.Tag)
	case errors.Is(err, chatbot.ErrIntentTableUnavailable):
		return "Intent file could not be loaded"
	default:
		return err.Error()
	}
}

func (u *uiState) onSaveTranscript() {
	if len(u.transcript.Lines()) == 0 {
		dialog.ShowInformation("Save", "Nothing to save yet", u.w)
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if uc == nil {
			return
		}
		defer uc.Close()
		if _, err := uc.Write([]byte(u.transcript.Text() + "\n")); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.logf("Transcript saved to %s", uc.URI().Path())
	}, u.w)
	fd.SetFileName("transcript.txt")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	fd.Show()
}

func (u *uiState) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

func showFatalError(a fyne.App, err error) {
	w := a.NewWindow("Chatbot")
	w.SetContent(widget.NewLabel(err.Error()))
	w.Resize(fyne.NewSize(480, 160))
	dialog.ShowError(err, w)
	w.ShowAndRun()
}
