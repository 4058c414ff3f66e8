package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// dreamCommandName は、夢を織り上げるスラッシュコマンド名です
const dreamCommandName = "dream"

// SlashCommandHandler は、Discordのスラッシュコマンドとボタン操作を処理するハンドラーです
type SlashCommandHandler struct {
	session         *discordgo.Session
	sessionService  *application.SessionService
	responseHandler *ResponseHandler
}

// NewSlashCommandHandler は新しいSlashCommandHandlerインスタンスを作成します
func NewSlashCommandHandler(
	session *discordgo.Session,
	sessionService *application.SessionService,
	responseHandler *ResponseHandler,
) *SlashCommandHandler {
	return &SlashCommandHandler{
		session:         session,
		sessionService:  sessionService,
		responseHandler: responseHandler,
	}
}

// commands は、登録するスラッシュコマンドの定義を返します
func (h *SlashCommandHandler) commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        dreamCommandName,
			Description: "夢の内容から、絵とささやき声の夢の風景を織り上げます",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "覚えている夢の内容",
					Required:    true,
				},
			},
		},
	}
}

// SetupSlashCommands は、スラッシュコマンドを登録します
func (h *SlashCommandHandler) SetupSlashCommands() error {
	// BotのユーザーIDを取得
	user, err := h.session.User("@me")
	if err != nil {
		return fmt.Errorf("Botユーザー情報の取得に失敗: %w", err)
	}

	commands := h.commands()
	if _, err := h.session.ApplicationCommandBulkOverwrite(user.ID, "", commands); err != nil {
		return fmt.Errorf("スラッシュコマンドの登録に失敗: %w", err)
	}

	log.Printf("スラッシュコマンドを登録しました: %d件", len(commands))
	return nil
}

// SetupSlashCommandHandlers は、インタラクションのイベントハンドラを設定します
func (h *SlashCommandHandler) SetupSlashCommandHandlers() {
	h.session.AddHandler(h.handleInteractionCreate)
}

// handleInteractionCreate は、インタラクション作成イベントを処理します
func (h *SlashCommandHandler) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case dreamCommandName:
			h.handleDreamCommand(s, i)
		default:
			log.Printf("未知のスラッシュコマンド: %s", i.ApplicationCommandData().Name)
		}
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, i)
	}
}

// handleDreamCommand は、/dreamコマンドを処理します
func (h *SlashCommandHandler) handleDreamCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	dreamText := commandText(i.ApplicationCommandData())
	if dreamText == "" {
		h.respondToInteraction(s, i, h.responseHandler.formatError(domain.ErrEmptyDreamText), true)
		return
	}

	// 応答まで時間がかかるため先に受け付けを返す
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
		return
	}

	go func() {
		session, err := h.sessionService.Weave(context.Background(), dreamText)
		if err != nil {
			log.Printf("夢の織り上げに失敗: %v", err)
			discardFailedSession(h.sessionService, session)
			h.followup(s, i, &dreamMessage{Content: h.responseHandler.formatError(err)})
			return
		}

		message, err := h.responseHandler.buildScapeMessage(session)
		if err != nil {
			log.Printf("夢のメッセージ作成に失敗: %v", err)
			h.followup(s, i, &dreamMessage{Content: h.responseHandler.formatError(err)})
			return
		}

		h.followup(s, i, message)
		log.Printf("夢を送信しました: セッション=%s", session.ID)
	}()
}

// handleComponent は、ボタン操作を処理します
func (h *SlashCommandHandler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, err := parseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		log.Printf("ボタンIDの解析に失敗: %v", err)
		return
	}

	switch action.Action {
	case actionExplore:
		h.handleExplore(s, i, action)
	case actionReturn:
		h.handleReturn(s, i, action)
	case actionReset:
		h.handleReset(s, i, action)
	}
}

// handleExplore は、テーマ探索ボタンを処理します
func (h *SlashCommandHandler) handleExplore(s *discordgo.Session, i *discordgo.InteractionCreate, action componentAction) {
	ctx := context.Background()

	session, err := h.sessionService.Get(ctx, action.SessionID)
	if err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	theme, err := themeAt(session, action.ThemeIndex)
	if err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
		return
	}

	go func() {
		log.Printf("テーマを探索: セッション=%s, テーマ=%s", action.SessionID, theme)
		session, err := h.sessionService.Explore(ctx, action.SessionID, theme)
		if errors.Is(err, domain.ErrStaleExploration) {
			// 戻る・リセット後に届いた結果は表示しない
			return
		}
		if err != nil {
			log.Printf("テーマの探索に失敗: %v", err)
			h.followup(s, i, &dreamMessage{Content: h.responseHandler.formatError(err)})
			return
		}

		message, err := h.responseHandler.buildExplorationMessage(session)
		if err != nil {
			log.Printf("探索メッセージの作成に失敗: %v", err)
			h.followup(s, i, &dreamMessage{Content: h.responseHandler.formatError(err)})
			return
		}
		h.followup(s, i, message)
	}()
}

// handleReturn は、戻るボタンを処理します
func (h *SlashCommandHandler) handleReturn(s *discordgo.Session, i *discordgo.InteractionCreate, action componentAction) {
	if _, err := h.sessionService.ReturnToScape(context.Background(), action.SessionID); err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.updateMessage(s, i, "↩️ 夢の風景に戻りました。")
}

// handleReset は、リセットボタンを処理します
func (h *SlashCommandHandler) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, action componentAction) {
	if err := h.sessionService.Reset(context.Background(), action.SessionID); err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.updateMessage(s, i, "🌫️ 夢を手放しました。新しい夢をいつでも聞かせてください。")
}

// updateMessage は、ボタンを取り除いて元のメッセージを更新します
func (h *SlashCommandHandler) updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	var embeds []*discordgo.MessageEmbed
	if i.Message != nil {
		embeds = i.Message.Embeds
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Printf("メッセージの更新に失敗: %v", err)
	}
}

// followup は、遅延応答のフォローアップメッセージを送信します
func (h *SlashCommandHandler) followup(s *discordgo.Session, i *discordgo.InteractionCreate, message *dreamMessage) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, message.toWebhookParams()); err != nil {
		log.Printf("フォローアップメッセージの送信に失敗: %v", err)
	}
}

// respondToInteraction は、インタラクションに応答します
func (h *SlashCommandHandler) respondToInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}

	if !ephemeral {
		response.Data.Flags = 0
	}

	err := s.InteractionRespond(i.Interaction, response)
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
	}
}

// commandText は、/dreamコマンドのtextオプションを取り出します
func commandText(data discordgo.ApplicationCommandInteractionData) string {
	for _, option := range data.Options {
		if option.Name == "text" {
			return strings.TrimSpace(option.StringValue())
		}
	}
	return ""
}

// themeAt は、ボタンのテーマ番号に対応するテーマを返します
func themeAt(session *domain.DreamSession, index int) (string, error) {
	if session.Record == nil {
		return "", domain.ErrInvalidState
	}

	themes := session.Record.Analysis().Themes
	if index < 0 || index >= len(themes) {
		return "", domain.ErrUnknownTheme
	}
	return themes[index], nil
}
