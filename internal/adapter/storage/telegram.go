package storage

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/semmidev/rollzip/internal/config"
	"github.com/spf13/afero"
)

// Bot API refuses uploads above this size.
const telegramMaxFileBytes = 50 * 1024 * 1024

// TelegramStorage posts archives (or just a notice about them) to a chat.
type TelegramStorage struct {
	fs         afero.Fs
	bot        *tgbotapi.BotAPI
	chatID     int64
	sendFile   bool
	notifyOnly bool
}

func NewTelegram(fs afero.Fs, cfg *config.UploadTarget) (*TelegramStorage, error) {
	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat_id %q: %w", cfg.ChatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramStorage{
		fs:         fs,
		bot:        bot,
		chatID:     chatID,
		sendFile:   cfg.SendFile,
		notifyOnly: cfg.NotifyOnly,
	}, nil
}

func (t *TelegramStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	info, err := t.fs.Stat(localPath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if t.notifyOnly || !t.sendFile || info.Size() > telegramMaxFileBytes {
		msg := tgbotapi.NewMessage(t.chatID, archiveNotice(remoteName, info.Size(), info.ModTime().Format("2006-01-02 15:04:05")))
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send telegram notification: %w", err)
		}
		return nil
	}

	file, err := t.fs.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FileReader{Name: remoteName, Reader: file})
	doc.Caption = fmt.Sprintf("Log archive %s (%.1f KB)", remoteName, float64(info.Size())/1024)
	if _, err := t.bot.Send(doc); err != nil {
		return fmt.Errorf("failed to send telegram file: %w", err)
	}

	return nil
}

func archiveNotice(name string, size int64, modTime string) string {
	return fmt.Sprintf("Log archive written\n\nFile: %s\nSize: %.1f KB\nTime: %s",
		name, float64(size)/1024, modTime)
}
