package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dreamweaver/internal/domain"
)

// SessionRepository は、夢セッションをメモリ上に保持するリポジトリの実装です
// プロセスの終了とともにすべてのセッションは失われます
type SessionRepository struct {
	sessions map[string]*domain.DreamSession
	mutex    sync.RWMutex
}

// NewSessionRepository は新しいSessionRepositoryインスタンスを作成します
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*domain.DreamSession),
	}
}

// Save は、セッションのコピーを保存します
func (r *SessionRepository) Save(ctx context.Context, session *domain.DreamSession) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if session == nil || session.ID == "" {
		return fmt.Errorf("セッションIDが指定されていません")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[session.ID] = session.Clone()
	return nil
}

// Get は、指定されたIDのセッションのコピーを取得します
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.DreamSession, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("セッション %s: %w", id, domain.ErrSessionNotFound)
	}

	return session.Clone(), nil
}

// Update は、ロックを保持したままセッションに更新関数を適用します
// 更新関数がエラーを返した場合、保存済みのセッションは変更されません
func (r *SessionRepository) Update(ctx context.Context, id string, fn func(session *domain.DreamSession) error) (*domain.DreamSession, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	current, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("セッション %s: %w", id, domain.ErrSessionNotFound)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	r.sessions[id] = working
	return working.Clone(), nil
}

// Delete は、指定されたIDのセッションを削除します
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return fmt.Errorf("セッション %s: %w", id, domain.ErrSessionNotFound)
	}

	delete(r.sessions, id)
	return nil
}

// DeleteExpired は、before より前に更新されたセッションを削除します
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	deleted := 0
	for id, session := range r.sessions {
		if session.State == domain.ViewStateLoading {
			continue
		}
		if session.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// Count は、保持しているセッション数を返します
func (r *SessionRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.sessions)
}
