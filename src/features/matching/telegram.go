package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sortify/src/features/jobs"
)

// TelegramHandler handles Telegram commands for matching
type TelegramHandler struct {
	service    *Service
	jobService *jobs.Service
}

// NewTelegramHandler creates a new Telegram handler for matching
func NewTelegramHandler(service *Service, jobService *jobs.Service) *TelegramHandler {
	return &TelegramHandler{service: service, jobService: jobService}
}

// GetCommands returns the commands this handler responds to
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"match":    "Preview matches for your liked tracks",
		"organize": "Organize liked tracks into playlists (use 'organize dry' to preview)",
	}
}

// HandleCommand handles matching commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "match":
		return h.handleMatch(bot, chatID)
	case "organize":
		dryRun := strings.TrimSpace(args) == "dry"
		return h.handleOrganize(bot, chatID, dryRun)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// HandleCallback handles matching-specific callbacks (none currently)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

func (h *TelegramHandler) handleMatch(bot *tgbotapi.BotAPI, chatID int64) error {
	waiting := tgbotapi.NewMessage(chatID, "🔍 Matching your liked tracks, this can take a moment...")
	bot.Send(waiting)

	report, err := h.service.Match(context.Background(), h.service.OptionsFromConfig())
	if err != nil {
		slog.Error("Telegram match failed", "error", err)
		msg := tgbotapi.NewMessage(chatID, "❌ Match failed: "+err.Error())
		bot.Send(msg)
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎵 *Match Preview*\n\nPlaylists scanned: %d\nMatched: %d\nUnmatched: %d\n",
		report.PlaylistsScanned, len(report.Matches), len(report.Unmatched)))
	for i, match := range report.Matches {
		if i == 10 {
			sb.WriteString(fmt.Sprintf("\n...and %d more", len(report.Matches)-10))
			break
		}
		sb.WriteString(fmt.Sprintf("\n%.2f  %s → %s", match.Score, match.TrackName, match.PlaylistName))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

func (h *TelegramHandler) handleOrganize(bot *tgbotapi.BotAPI, chatID int64, dryRun bool) error {
	jobID, err := h.jobService.StartJob(AutoOrganizeJobType, "Auto-organize liked tracks", map[string]any{
		"dry_run": dryRun,
	})
	if err != nil {
		slog.Error("Telegram organize failed to start", "error", err)
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to start organize job")
		bot.Send(msg)
		return nil
	}

	mode := "applying matches"
	if dryRun {
		mode = "dry run, nothing will be applied"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🚀 Organize job started (%s)\nJob ID: `%s`", mode, jobID))
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}
