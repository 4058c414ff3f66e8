package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/audio"

	"github.com/bwmarrin/discordgo"
)

// DiscordMessageLimit は、Discordのメッセージ文字数制限です
const DiscordMessageLimit = 2000

// embedFieldLimit は、埋め込みフィールド値の文字数制限です
const embedFieldLimit = 1024

// 添付ファイル名
const (
	dreamImageFilename   = "dream.jpg"
	whisperAudioFilename = "whisper.wav"
	exploreImageFilename = "explore.jpg"
)

// ボタンのカスタムIDに使うアクション名
const (
	actionExplore = "explore"
	actionReturn  = "return"
	actionReset   = "reset"
)

// 埋め込みの色
const (
	dreamEmbedColor   = 0x7B5CD6
	exploreEmbedColor = 0x4FA3D9
)

// dreamMessage は、Discordへ送信するメッセージの内容です
type dreamMessage struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Files      []*discordgo.File
}

// toMessageSend は、チャンネル送信用のメッセージに変換します
func (m *dreamMessage) toMessageSend() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    m.Content,
		Embeds:     m.Embeds,
		Components: m.Components,
		Files:      m.Files,
	}
}

// toWebhookParams は、インタラクションのフォローアップ用パラメータに変換します
func (m *dreamMessage) toWebhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:    m.Content,
		Embeds:     m.Embeds,
		Components: m.Components,
		Files:      m.Files,
	}
}

// ResponseHandler は、Discordのレスポンス組み立て・フォーマット処理を担当するハンドラーです
type ResponseHandler struct{}

// NewResponseHandler は新しいResponseHandlerインスタンスを作成します
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{}
}

// buildScapeMessage は、織り上がった夢を埋め込み・添付ファイル・ボタン付きのメッセージにします
func (h *ResponseHandler) buildScapeMessage(session *domain.DreamSession) (*dreamMessage, error) {
	if session == nil || session.Record == nil {
		return nil, fmt.Errorf("表示できる夢がありません")
	}

	record := session.Record
	analysis := record.Analysis()

	_, image, err := domain.ParseImageDataURI(record.ImageURL())
	if err != nil {
		return nil, fmt.Errorf("夢の画像の取り出しに失敗: %w", err)
	}

	wav, err := audio.EncodeWAV(record.Audio())
	if err != nil {
		return nil, fmt.Errorf("ささやき声のWAV変換に失敗: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🌙 " + analysis.Title,
		Description: fmt.Sprintf("*%s*", analysis.Mood),
		Color:       dreamEmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "テーマ",
				Value: strings.Join(analysis.Themes, " / "),
			},
			{
				Name:  "あなたの夢",
				Value: truncate(record.OriginalText(), embedFieldLimit),
			},
			{
				Name:   "ささやき",
				Value:  fmt.Sprintf("「%s」(%.1f秒)", analysis.AudioPrompt, record.Audio().Duration().Seconds()),
				Inline: true,
			},
		},
		Image: &discordgo.MessageEmbedImage{
			URL: "attachment://" + dreamImageFilename,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "セッション: " + session.ID,
		},
	}

	return &dreamMessage{
		Content:    "✨ **夢が織り上がりました**\nテーマを選ぶと、その断片をさらに深く探索できます。",
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: h.scapeComponents(session.ID, analysis.Themes),
		Files: []*discordgo.File{
			{Name: dreamImageFilename, ContentType: domain.JPEGMIMEType, Reader: bytes.NewReader(image)},
			{Name: whisperAudioFilename, ContentType: audio.WAVMIMEType, Reader: bytes.NewReader(wav)},
		},
	}, nil
}

// scapeComponents は、テーマ探索ボタンとリセットボタンを作成します
// 1行に置けるボタンは5個までのため、テーマは行ごとに分割します
func (h *ResponseHandler) scapeComponents(sessionID string, themes []string) []discordgo.MessageComponent {
	const buttonsPerRow = 5

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i, theme := range themes {
		row = append(row, discordgo.Button{
			Label:    truncate(theme, 80),
			Style:    discordgo.PrimaryButton,
			CustomID: exploreCustomID(sessionID, i),
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}

	rows = append(rows, discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "夢を手放す",
				Style:    discordgo.DangerButton,
				CustomID: resetCustomID(sessionID),
			},
		},
	})

	return rows
}

// buildExplorationMessage は、テーマ探索の結果を戻るボタン付きのメッセージにします
func (h *ResponseHandler) buildExplorationMessage(session *domain.DreamSession) (*dreamMessage, error) {
	if session == nil || session.Exploration == nil {
		return nil, fmt.Errorf("表示できる探索結果がありません")
	}

	_, image, err := domain.ParseImageDataURI(session.Exploration.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("探索画像の取り出しに失敗: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "🔍 " + session.Exploration.Theme,
		Color: exploreEmbedColor,
		Image: &discordgo.MessageEmbedImage{
			URL: "attachment://" + exploreImageFilename,
		},
	}

	return &dreamMessage{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "夢の風景に戻る",
						Style:    discordgo.SecondaryButton,
						CustomID: returnCustomID(session.ID),
					},
				},
			},
		},
		Files: []*discordgo.File{
			{Name: exploreImageFilename, ContentType: domain.JPEGMIMEType, Reader: bytes.NewReader(image)},
		},
	}, nil
}

// exploreCustomID は、テーマ探索ボタンのカスタムIDを作成します
func exploreCustomID(sessionID string, themeIndex int) string {
	return fmt.Sprintf("%s:%s:%d", actionExplore, sessionID, themeIndex)
}

// returnCustomID は、戻るボタンのカスタムIDを作成します
func returnCustomID(sessionID string) string {
	return actionReturn + ":" + sessionID
}

// resetCustomID は、リセットボタンのカスタムIDを作成します
func resetCustomID(sessionID string) string {
	return actionReset + ":" + sessionID
}

// componentAction は、ボタンのカスタムIDを解析した結果です
type componentAction struct {
	Action     string
	SessionID  string
	ThemeIndex int
}

// parseCustomID は、ボタンのカスタムIDを解析します
func parseCustomID(customID string) (componentAction, error) {
	parts := strings.Split(customID, ":")
	if len(parts) < 2 || parts[1] == "" {
		return componentAction{}, fmt.Errorf("不正なカスタムID: %s", customID)
	}

	action := componentAction{Action: parts[0], SessionID: parts[1]}
	switch action.Action {
	case actionExplore:
		if len(parts) != 3 {
			return componentAction{}, fmt.Errorf("不正な探索ボタンID: %s", customID)
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil || index < 0 {
			return componentAction{}, fmt.Errorf("不正なテーマ番号: %s", customID)
		}
		action.ThemeIndex = index
	case actionReturn, actionReset:
		if len(parts) != 2 {
			return componentAction{}, fmt.Errorf("不正なボタンID: %s", customID)
		}
	default:
		return componentAction{}, fmt.Errorf("未知のアクション: %s", parts[0])
	}

	return action, nil
}

// isTimeoutError は、エラーがタイムアウトエラーかどうかを判定します
func (h *ResponseHandler) isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// タイムアウト関連のエラーメッセージを検出
	errorMsg := strings.ToLower(err.Error())
	timeoutKeywords := []string{
		"timeout",
		"タイムアウト",
		"deadline exceeded",
		"context deadline",
	}

	for _, keyword := range timeoutKeywords {
		if strings.Contains(errorMsg, keyword) {
			return true
		}
	}

	return false
}

// formatError は、エラーを適切なメッセージにフォーマットします
func (h *ResponseHandler) formatError(err error) string {
	if err == nil {
		return "❌ **不明なエラーが発生しました**"
	}

	switch {
	case errors.Is(err, domain.ErrEmptyDreamText):
		return "💭 **夢の内容が空です**\nメンションに続けて、覚えている夢を書いてください。"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "🌫️ **この夢はもう手放されています**\n新しい夢を聞かせてください。"
	case errors.Is(err, domain.ErrInvalidState):
		return "⏳ **今はこの操作を行えません**\n夢が織り上がってから、もう一度お試しください。"
	case errors.Is(err, domain.ErrUnknownTheme):
		return "❓ **この夢に含まれないテーマです**"
	}

	stage, hasStage := domain.StageOf(err)

	if h.isTimeoutError(err) {
		target := "処理"
		if hasStage {
			target = stage.Label()
		}
		return fmt.Sprintf("⏰ **%sがタイムアウトしました**\n\n", target) +
			"処理に時間がかかりすぎました。以下の対処法をお試しください：\n\n" +
			"- 夢の内容を短くしてみる\n" +
			"- しばらく待ってから再度お試しください\n\n" +
			"ご不便をおかけして申し訳ございません。"
	}

	if strings.Contains(err.Error(), "安全フィルター") {
		return "🚫 **安全フィルターによりブロックされました**\n\n" +
			"夢の内容に不適切な表現が含まれている可能性があります。\n" +
			"別の表現で再度お試しください。"
	}

	if hasStage {
		return truncate(fmt.Sprintf("❌ **%sに失敗しました**\n%s", stage.Label(), err.Error()), DiscordMessageLimit)
	}

	return truncate(fmt.Sprintf("❌ **エラーが発生しました**\n%s", err.Error()), DiscordMessageLimit)
}

// truncate は、文字列を指定された文字数に収めます
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
