package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"dreamweaver/configs"
	"dreamweaver/internal/application"
	"dreamweaver/internal/infrastructure/config"
	"dreamweaver/internal/infrastructure/gemini"
	"dreamweaver/internal/infrastructure/memory"
	"dreamweaver/internal/infrastructure/openai"
)

// newDreamClient は、設定されたプロバイダーの能力クライアントを作成します
// 返されたcleanupは使用後に必ず呼び出してください
func newDreamClient(cfg *configs.Config) (application.DreamClient, func(), error) {
	switch cfg.Dream.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewGeminiAPIClient(cfg.Gemini.APIKey, &cfg.Gemini)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Printf("Gemini APIクライアントのクローズに失敗: %v", err)
			}
		}
		return client, cleanup, nil
	case config.ProviderOpenAI:
		client, err := openai.NewOpenAIClient(cfg.OpenAI.APIKey, &cfg.OpenAI)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("未知のプロバイダーです: %s", cfg.Dream.Provider)
	}
}

// newDreamService は、設定からパイプラインを組み立てます
func newDreamService(cfg *configs.Config) (*application.DreamService, func(), error) {
	client, cleanup, err := newDreamClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("能力クライアントの作成に失敗: %w", err)
	}

	service, err := application.NewDreamService(client, &cfg.Dream)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("夢サービスの作成に失敗: %w", err)
	}

	log.Printf("プロバイダー: %s, 音声: %s, アスペクト比: %s", cfg.Dream.Provider, cfg.Dream.VoiceName, cfg.Dream.AspectRatio)
	return service, cleanup, nil
}

// newSessionService は、インメモリのセッション管理付きでサービスを組み立てます
func newSessionService(cfg *configs.Config) (*application.SessionService, func(), error) {
	pipeline, cleanup, err := newDreamService(cfg)
	if err != nil {
		return nil, nil, err
	}

	service := application.NewSessionService(pipeline, memory.NewSessionRepository())
	service.SetSessionTTL(cfg.Dream.SessionTTL)
	return service, cleanup, nil
}

// startSessionEviction は、期限切れセッションの破棄をバックグラウンドで開始します
func startSessionEviction(ctx context.Context, service *application.SessionService, ttl time.Duration) {
	if ttl <= 0 {
		log.Println("セッションの自動破棄は無効です")
		return
	}
	log.Printf("セッション保持期間: %v", ttl)
	go service.RunEviction(ctx, evictionInterval(ttl))
}

// evictionInterval は、保持期間に対する破棄チェックの間隔を返します
func evictionInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
