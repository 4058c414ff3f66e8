package domain

import (
	"fmt"
	"strings"
)

// User は、Discordのユーザー情報を表現する値オブジェクトです
type User struct {
	ID          string
	Username    string
	DisplayName string
	IsBot       bool
}

// DreamMention は、Botへのメンションで送られた夢の内容を表現する値オブジェクトです
type DreamMention struct {
	ChannelID string
	GuildID   string
	User      User
	Content   string
	MessageID string
}

// DreamText は、メンション本文から夢の内容を取り出します
func (dm DreamMention) DreamText() string {
	return strings.TrimSpace(dm.Content)
}

// IsEmpty は、夢の内容が空かどうかを判定します
func (dm DreamMention) IsEmpty() bool {
	return dm.DreamText() == ""
}

// ThreadName は、メンションから作成するスレッド名を返します
func (dm DreamMention) ThreadName() string {
	text := []rune(dm.DreamText())
	if len(text) > 40 {
		text = append(text[:40], []rune("...")...)
	}
	if len(text) == 0 {
		return "夢の織り上げ"
	}
	return fmt.Sprintf("夢: %s", string(text))
}

// String はDreamMentionの文字列表現を返します
func (dm DreamMention) String() string {
	return fmt.Sprintf("DreamMention{ChannelID: %s, GuildID: %s, User: %s, Content: %s, MessageID: %s}",
		dm.ChannelID, dm.GuildID, dm.User.Username, dm.Content, dm.MessageID)
}
