package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"dreamweaver/internal/application"
	"dreamweaver/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// shutdownTimeout は、グレースフルシャットダウンの待ち時間です
const shutdownTimeout = 10 * time.Second

// Server は、夢セッションのHTTP APIサーバーです
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer は新しいServerインスタンスを作成します
func NewServer(sessionService *application.SessionService, serverConfig *config.ServerConfig) *Server {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(corsMiddleware())

	NewDreamHandler(sessionService).RegisterRoutes(engine)

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:              ":" + serverConfig.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler は、ルーティング済みのハンドラを返します
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run は、コンテキストがキャンセルされるまでサーバーを実行します
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("HTTPサーバーを起動しました: %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	log.Println("HTTPサーバーを停止しています...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}

	log.Println("HTTPサーバーを停止しました")
	return nil
}

// corsMiddleware は、ブラウザからの呼び出し用にCORSヘッダーを付与します
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
