package domain

import (
	"context"
	"time"
)

// SessionRepository は、夢セッションを保持するためのインターフェースです
type SessionRepository interface {
	// Save は、セッションを保存します
	Save(ctx context.Context, session *DreamSession) error

	// Get は、指定されたIDのセッションのコピーを取得します
	Get(ctx context.Context, id string) (*DreamSession, error)

	// Update は、指定されたIDのセッションを排他的に読み込み、更新関数を適用して保存します
	// 更新関数がエラーを返した場合、変更は破棄されます
	Update(ctx context.Context, id string, fn func(session *DreamSession) error) (*DreamSession, error)

	// Delete は、指定されたIDのセッションを削除します
	Delete(ctx context.Context, id string) error

	// DeleteExpired は、before より前に更新されたセッションを削除し、削除した数を返します
	// 織り上げ中のセッションは対象外です
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
