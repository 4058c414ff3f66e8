package discord

import (
	"context"
	"log"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// DiscordHandler は、Discordのイベントハンドラです
type DiscordHandler struct {
	session             *discordgo.Session
	sessionService      *application.SessionService
	botID               string
	mentionHandler      *MentionHandler
	slashCommandHandler *SlashCommandHandler
}

// NewDiscordHandler は新しいDiscordHandlerインスタンスを作成します
func NewDiscordHandler(
	session *discordgo.Session,
	sessionService *application.SessionService,
	botID string,
) *DiscordHandler {
	responseHandler := NewResponseHandler()

	return &DiscordHandler{
		session:             session,
		sessionService:      sessionService,
		botID:               botID,
		mentionHandler:      NewMentionHandler(session, sessionService, botID, responseHandler),
		slashCommandHandler: NewSlashCommandHandler(session, sessionService, responseHandler),
	}
}

// SetupHandlers は、Discordのイベントハンドラを設定します
func (h *DiscordHandler) SetupHandlers() {
	h.mentionHandler.SetupHandlers()
	h.slashCommandHandler.SetupSlashCommandHandlers()
}

// SetBotUsername は、ユーザー名でのメンション判定に使うBotの名前を設定します
func (h *DiscordHandler) SetBotUsername(username string) {
	h.mentionHandler.SetBotUsername(username)
}

// RegisterCommands は、スラッシュコマンドを登録します
// セッションを開いた後に呼び出す必要があります
func (h *DiscordHandler) RegisterCommands() error {
	return h.slashCommandHandler.SetupSlashCommands()
}

// discardFailedSession は、織り上げに失敗したセッションを破棄します
// 失敗した夢にはボタンが付かないため、利用者が破棄する手段はありません
func discardFailedSession(sessionService *application.SessionService, session *domain.DreamSession) {
	if session == nil {
		return
	}
	if err := sessionService.Reset(context.Background(), session.ID); err != nil {
		log.Printf("失敗したセッションの破棄に失敗: %v", err)
	}
}
