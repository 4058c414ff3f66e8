package cli

import (
	"fmt"
	"os"

	"dreamweaver/configs"
	"dreamweaver/internal/presentation/api"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP APIサーバーとして起動します",
		Long: `夢セッションを操作するJSON APIを起動します。

POST /api/v1/dreams で夢を織り上げ、画像・音声の取得やテーマの探索ができます。`,
		Example: `  # SERVER_PORT（デフォルト 8080）で起動
  dreamweaver serve

  # ポートを指定して起動
  dreamweaver serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.LoadConfig()
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗: %w", err)
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			if os.Getenv("GIN_MODE") == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			sessionService, cleanup, err := newSessionService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			startSessionEviction(cmd.Context(), sessionService, cfg.Dream.SessionTTL)

			return api.NewServer(sessionService, &cfg.Server).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "待ち受けるポート（省略時は SERVER_PORT）")

	return cmd
}
