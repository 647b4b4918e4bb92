package telegram

import (
	"context"
	"strconv"

	"github.com/anipixel/anipixel/core/nav"

	tele "gopkg.in/telebot.v4"
)

// Messenger adapts the Telegram Bot API to the nav.Messenger contract. All
// calls are synchronous; context deadlines are enforced by the underlying
// HTTP client's timeouts.
type Messenger struct {
	bot *tele.Bot
}

var _ nav.Messenger = (*Messenger)(nil)

// NewMessenger wraps an initialized bot.
func NewMessenger(bot *tele.Bot) *Messenger {
	return &Messenger{bot: bot}
}

// SendMessage sends a Markdown text message with an optional inline keyboard.
func (m *Messenger) SendMessage(_ context.Context, chatID int64, text string, grid nav.ButtonGrid) error {
	_, err := m.bot.Send(tele.ChatID(chatID), text, sendOptions(grid))
	return err
}

// SendPhoto sends a photo by URL with a Markdown caption.
func (m *Messenger) SendPhoto(_ context.Context, chatID int64, photoURL, caption string, grid nav.ButtonGrid) error {
	photo := &tele.Photo{File: tele.FromURL(photoURL), Caption: caption}
	_, err := m.bot.Send(tele.ChatID(chatID), photo, sendOptions(grid))
	return err
}

// EditMessageText rewrites an existing text message in place.
func (m *Messenger) EditMessageText(_ context.Context, chatID int64, messageID int, text string, grid nav.ButtonGrid) error {
	ref := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := m.bot.Edit(ref, text, sendOptions(grid))
	return err
}

// DeleteMessage removes a message.
func (m *Messenger) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	return m.bot.Delete(tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID})
}

// AnswerCallback acknowledges a button click, optionally with an alert.
func (m *Messenger) AnswerCallback(_ context.Context, callbackID, text string, showAlert bool) error {
	return m.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{
		Text:      text,
		ShowAlert: showAlert,
	})
}

func sendOptions(grid nav.ButtonGrid) *tele.SendOptions {
	return &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: toMarkup(grid),
	}
}

// toMarkup converts the renderer's grid into a telebot inline keyboard.
func toMarkup(grid nav.ButtonGrid) *tele.ReplyMarkup {
	if len(grid) == 0 {
		return nil
	}
	keyboard := make([][]tele.InlineButton, len(grid))
	for i, row := range grid {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			if btn.WebAppURL != "" {
				r[j] = tele.InlineButton{Text: btn.Text, WebApp: &tele.WebApp{URL: btn.WebAppURL}}
				continue
			}
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data}
		}
		keyboard[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: keyboard}
}
