package telegrambot

import (
	"bytes"
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	apperrors "group-verify-bot/internal/errors"
	"group-verify-bot/internal/messenger"
)

// Sender implements messenger.Messenger on top of telebot
type Sender struct {
	bot    *telebot.Bot
	logger *logrus.Logger
}

// SendText sends an HTML text message with optional quick replies
func (s *Sender) SendText(_ context.Context, chatID int64, text string, keyboard *messenger.Keyboard) error {
	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, text, sendOptions(keyboard)); err != nil {
		return &apperrors.DeliveryError{Operation: "send message", ChatID: chatID, Err: err}
	}
	return nil
}

// SendPhoto re-sends a stored photo by its file reference
func (s *Sender) SendPhoto(_ context.Context, chatID int64, imageRef, caption string, keyboard *messenger.Keyboard) error {
	photo := &telebot.Photo{File: telebot.File{FileID: imageRef}, Caption: caption}
	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, photo, sendOptions(keyboard)); err != nil {
		return &apperrors.DeliveryError{Operation: "send photo", ChatID: chatID, Err: err}
	}
	return nil
}

// SendDocument re-sends a stored file by its reference
func (s *Sender) SendDocument(_ context.Context, chatID int64, fileRef, caption string, keyboard *messenger.Keyboard) error {
	doc := &telebot.Document{File: telebot.File{FileID: fileRef}, Caption: caption}
	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, doc, sendOptions(keyboard)); err != nil {
		return &apperrors.DeliveryError{Operation: "send document", ChatID: chatID, Err: err}
	}
	return nil
}

// SendImage uploads an image
func (s *Sender) SendImage(_ context.Context, chatID int64, image []byte, caption string) error {
	photo := &telebot.Photo{File: telebot.FromReader(bytes.NewReader(image)), Caption: caption}
	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, photo, sendOptions(nil)); err != nil {
		return &apperrors.DeliveryError{Operation: "send image", ChatID: chatID, Err: err}
	}
	return nil
}

// DeleteMessage deletes a message. The bot needs delete rights in the chat.
func (s *Sender) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	msg := &telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if err := s.bot.Delete(msg); err != nil {
		return &apperrors.DeliveryError{Operation: "delete message", ChatID: chatID, Err: err}
	}
	return nil
}

func sendOptions(keyboard *messenger.Keyboard) *telebot.SendOptions {
	opts := &telebot.SendOptions{
		ParseMode: telebot.ModeHTML,
	}
	if markup := replyMarkup(keyboard); markup != nil {
		opts.ReplyMarkup = markup
	}
	return opts
}

// replyMarkup converts quick replies into a reply keyboard
func replyMarkup(keyboard *messenger.Keyboard) *telebot.ReplyMarkup {
	if keyboard == nil {
		return nil
	}
	if keyboard.Remove {
		return &telebot.ReplyMarkup{RemoveKeyboard: true}
	}

	markup := &telebot.ReplyMarkup{
		ResizeKeyboard: true,
	}

	rows := make([]telebot.Row, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		btns := make(telebot.Row, 0, len(row))
		for _, b := range row {
			btns = append(btns, telebot.Btn{Text: b.Text, Contact: b.RequestContact})
		}
		rows = append(rows, btns)
	}

	markup.Reply(rows...)
	return markup
}
