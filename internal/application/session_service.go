package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dreamweaver/internal/domain"
)

// SessionService は、夢セッションの表示状態とテーマ探索を管理するアプリケーションサービスです
type SessionService struct {
	pipeline DreamPipeline
	repo     domain.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService は新しいSessionServiceインスタンスを作成します
func NewSessionService(pipeline DreamPipeline, repo domain.SessionRepository) *SessionService {
	return &SessionService{
		pipeline: pipeline,
		repo:     repo,
		now:      time.Now,
	}
}

// SetSessionTTL は、最後の更新からセッションを保持する期間を設定します
// 0以下の場合、セッションは Reset されるまで保持されます
func (s *SessionService) SetSessionTTL(ttl time.Duration) {
	s.ttl = ttl
}

// Weave は、新しいセッションを作成して夢を織り上げます
// パイプラインが失敗した場合は、error状態のセッションとエラーの両方を返します
func (s *SessionService) Weave(ctx context.Context, dreamText string) (*domain.DreamSession, error) {
	dreamText = strings.TrimSpace(dreamText)
	if dreamText == "" {
		return nil, domain.ErrEmptyDreamText
	}

	session := domain.NewDreamSession()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗: %w", err)
	}
	log.Printf("セッションを作成: %s", session.ID)

	record, weaveErr := s.pipeline.WeaveDream(ctx, dreamText)

	updated, err := s.repo.Update(context.WithoutCancel(ctx), session.ID, func(session *domain.DreamSession) error {
		if weaveErr != nil {
			session.Fail(fmt.Sprintf("夢を織り上げられませんでした。%v", weaveErr))
			return nil
		}
		session.Complete(record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("セッションの更新に失敗: %w", err)
	}

	return updated, weaveErr
}

// Get は、指定されたIDのセッションを取得します
func (s *SessionService) Get(ctx context.Context, id string) (*domain.DreamSession, error) {
	return s.repo.Get(ctx, id)
}

// Explore は、セッションの夢から指定されたテーマを探索し、結果をオーバーレイとして設定します
func (s *SessionService) Explore(ctx context.Context, id string, theme string) (*domain.DreamSession, error) {
	var (
		seq    uint64
		record *domain.DreamscapeRecord
	)

	_, err := s.repo.Update(ctx, id, func(session *domain.DreamSession) error {
		n, err := session.BeginExploration(theme)
		if err != nil {
			return err
		}
		seq = n
		record = session.Record
		return nil
	})
	if err != nil {
		return nil, err
	}

	imageURL, exploreErr := s.pipeline.ExploreTheme(ctx, theme, record)

	updated, err := s.repo.Update(context.WithoutCancel(ctx), id, func(session *domain.DreamSession) error {
		if exploreErr != nil {
			return session.FailExploration(seq, fmt.Sprintf("テーマを探索できませんでした。%v", exploreErr))
		}
		return session.CompleteExploration(seq, domain.Exploration{Theme: theme, ImageURL: imageURL})
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleExploration) || errors.Is(err, domain.ErrSessionNotFound) {
			log.Printf("古い探索結果を破棄: セッション=%s, テーマ=%s", id, theme)
			if exploreErr != nil {
				return nil, exploreErr
			}
			return nil, domain.ErrStaleExploration
		}
		return nil, fmt.Errorf("セッションの更新に失敗: %w", err)
	}

	return updated, exploreErr
}

// ReturnToScape は、探索オーバーレイを閉じて夢の表示に戻ります
func (s *SessionService) ReturnToScape(ctx context.Context, id string) (*domain.DreamSession, error) {
	return s.repo.Update(ctx, id, func(session *domain.DreamSession) error {
		return session.ReturnToScape()
	})
}

// Reset は、セッションを破棄します
func (s *SessionService) Reset(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("セッションを破棄: %s", id)
	return nil
}

// EvictExpired は、保持期間を過ぎたセッションを破棄し、破棄した数を返します
func (s *SessionService) EvictExpired(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	deleted, err := s.repo.DeleteExpired(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("期限切れセッションの破棄に失敗: %w", err)
	}
	if deleted > 0 {
		log.Printf("期限切れのセッションを破棄: %d件", deleted)
	}
	return deleted, nil
}

// RunEviction は、ctx が終了するまで interval ごとに期限切れのセッションを破棄します
func (s *SessionService) RunEviction(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.EvictExpired(ctx); err != nil && ctx.Err() == nil {
				log.Printf("セッションの破棄に失敗: %v", err)
			}
		}
	}
}
