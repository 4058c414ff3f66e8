package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// threadAutoArchiveMinutes は、作成したスレッドが自動アーカイブされるまでの時間（分）です
const threadAutoArchiveMinutes = 60

// MentionHandler は、Discordのメンション処理を担当するハンドラーです
type MentionHandler struct {
	session         *discordgo.Session
	sessionService  *application.SessionService
	botID           string
	botUsername     string
	responseHandler *ResponseHandler
	loadingInterval time.Duration
}

// NewMentionHandler は新しいMentionHandlerインスタンスを作成します
func NewMentionHandler(
	session *discordgo.Session,
	sessionService *application.SessionService,
	botID string,
	responseHandler *ResponseHandler,
) *MentionHandler {
	return &MentionHandler{
		session:         session,
		sessionService:  sessionService,
		botID:           botID,
		responseHandler: responseHandler,
		loadingInterval: domain.LoadingMessageInterval,
	}
}

// SetupHandlers は、メンション関連のイベントハンドラを設定します
func (h *MentionHandler) SetupHandlers() {
	h.session.AddHandler(h.handleMessageCreate)
	h.session.AddHandler(h.handleReady)
}

// SetBotUsername は、Botのユーザー名を設定します
func (h *MentionHandler) SetBotUsername(username string) {
	h.botUsername = username
}

// handleReady は、Botが準備完了した際のイベントを処理します
func (h *MentionHandler) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Botが準備完了しました: %s#%s", event.User.Username, event.User.Discriminator)
	h.botUsername = event.User.Username
}

// handleMessageCreate は、メッセージ作成イベントを処理します
func (h *MentionHandler) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Bot自身のメッセージは無視
	if m.Author == nil || m.Author.ID == h.botID || m.Author.Bot {
		return
	}

	// メンションされているかチェック
	if !h.isMentioned(m) {
		return
	}

	mention := h.createDreamMention(m)
	log.Printf("夢のメンションを検出: %s", mention)

	if mention.IsEmpty() {
		h.reply(s, m, h.responseHandler.formatError(domain.ErrEmptyDreamText))
		return
	}

	// 非同期で夢を織り上げる
	go h.processDreamAsync(s, m, mention)
}

// isMentioned は、メッセージがBotへのメンションかどうかを判定します
func (h *MentionHandler) isMentioned(m *discordgo.MessageCreate) bool {
	// メンション配列をチェック
	for _, mention := range m.Mentions {
		if mention.ID == h.botID {
			return true
		}
	}

	// メンション配列が空の場合、コンテンツをチェック
	if len(m.Mentions) == 0 && h.botUsername != "" {
		content := strings.ToLower(m.Content)
		botMention := fmt.Sprintf("@%s", strings.ToLower(h.botUsername))
		return strings.Contains(content, botMention)
	}

	return false
}

// createDreamMention は、DiscordメッセージからDreamMentionオブジェクトを作成します
func (h *MentionHandler) createDreamMention(m *discordgo.MessageCreate) domain.DreamMention {
	user := domain.User{
		ID:          m.Author.ID,
		Username:    m.Author.Username,
		DisplayName: h.getDisplayName(m),
		IsBot:       m.Author.Bot,
	}

	return domain.DreamMention{
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		User:      user,
		Content:   h.extractUserContent(m),
		MessageID: m.ID,
	}
}

// extractUserContent は、メンション部分を除去したユーザーのコンテンツを抽出します
func (h *MentionHandler) extractUserContent(m *discordgo.MessageCreate) string {
	content := m.Content

	for _, mention := range m.Mentions {
		content = strings.ReplaceAll(content, fmt.Sprintf("<@%s>", mention.ID), "")
		content = strings.ReplaceAll(content, fmt.Sprintf("<@!%s>", mention.ID), "")
	}

	// ユーザー名でのメンションも除去
	if len(m.Mentions) == 0 && h.botUsername != "" {
		botMention := "@" + h.botUsername
		if index := strings.Index(strings.ToLower(content), strings.ToLower(botMention)); index >= 0 {
			content = content[:index] + content[index+len(botMention):]
		}
	}

	return strings.TrimSpace(content)
}

// getDisplayName は、Discordメッセージから表示名を取得します
func (h *MentionHandler) getDisplayName(m *discordgo.MessageCreate) string {
	// メンバー情報がある場合はニックネームを優先
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}

// processDreamAsync は、スレッドを作成して夢を織り上げ、結果を送信します
func (h *MentionHandler) processDreamAsync(s *discordgo.Session, m *discordgo.MessageCreate, mention domain.DreamMention) {
	targetChannelID := m.ChannelID

	thread, err := s.MessageThreadStartComplex(m.ChannelID, m.ID, &discordgo.ThreadStart{
		Name:                mention.ThreadName(),
		AutoArchiveDuration: threadAutoArchiveMinutes,
		Invitable:           false,
	})
	if err != nil {
		// スレッド作成に失敗した場合は元のチャンネルに送信
		log.Printf("スレッド作成に失敗、チャンネルに送信します: %v", err)
	} else {
		targetChannelID = thread.ID
	}

	// 進捗メッセージを表示しながら夢を織り上げる
	stopLoading := h.startLoading(s, targetChannelID)
	session, err := h.sessionService.Weave(context.Background(), mention.DreamText())
	stopLoading()

	if err != nil {
		log.Printf("夢の織り上げに失敗: %v", err)
		discardFailedSession(h.sessionService, session)
		h.send(s, targetChannelID, h.responseHandler.formatError(err))
		return
	}

	message, err := h.responseHandler.buildScapeMessage(session)
	if err != nil {
		log.Printf("夢のメッセージ作成に失敗: %v", err)
		h.send(s, targetChannelID, h.responseHandler.formatError(err))
		return
	}

	if _, err := s.ChannelMessageSendComplex(targetChannelID, message.toMessageSend()); err != nil {
		log.Printf("夢のメッセージ送信に失敗: %v", err)
		return
	}
	log.Printf("夢を送信しました: セッション=%s, チャンネル=%s", session.ID, targetChannelID)
}

// startLoading は、進捗メッセージを送信して一定間隔で切り替えます
// 返された関数を呼ぶと切り替えを止めて進捗メッセージを削除します
func (h *MentionHandler) startLoading(s *discordgo.Session, channelID string) func() {
	loadingMsg, err := s.ChannelMessageSend(channelID, loadingText(0))
	if err != nil {
		log.Printf("進捗メッセージの送信に失敗: %v", err)
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.loadingInterval)
		defer ticker.Stop()

		for step := 1; ; step++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				if _, err := s.ChannelMessageEdit(channelID, loadingMsg.ID, loadingText(step)); err != nil {
					log.Printf("進捗メッセージの更新に失敗: %v", err)
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		if err := s.ChannelMessageDelete(channelID, loadingMsg.ID); err != nil {
			log.Printf("進捗メッセージの削除に失敗: %v", err)
		}
	}
}

// send は、テキストメッセージを送信します
func (h *MentionHandler) send(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("メッセージの送信に失敗: %v", err)
	}
}

// reply は、元のメッセージにリプライします
func (h *MentionHandler) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	_, err := s.ChannelMessageSendReply(m.ChannelID, content, &discordgo.MessageReference{
		MessageID: m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	})
	if err != nil {
		log.Printf("リプライの送信に失敗: %v", err)
	}
}

// loadingText は、進捗メッセージの表示テキストを返します
func loadingText(step int) string {
	return "🌙 *" + domain.LoadingMessage(step) + "*"
}
