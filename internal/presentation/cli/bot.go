package cli

import (
	"fmt"
	"log"

	"dreamweaver/configs"
	discordPres "dreamweaver/internal/presentation/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Discord Botとして起動します",
		Long: `Discord Botとして起動し、メンションまたは /dream コマンドで
送られた夢を織り上げます。終了シグナルを受け取るまで動作します。`,
		Example: `  # .env の DISCORD_BOT_TOKEN と GEMINI_API_KEY を使って起動
  dreamweaver bot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Println("Discord夢織りBotを起動中...")

			cfg, err := configs.LoadConfig()
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗: %w", err)
			}
			if err := cfg.ValidateDiscord(); err != nil {
				return err
			}

			sessionService, cleanup, err := newSessionService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			startSessionEviction(cmd.Context(), sessionService, cfg.Dream.SessionTTL)

			// Discordセッションを作成
			session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
			if err != nil {
				return fmt.Errorf("Discordセッションの作成に失敗: %w", err)
			}
			session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

			// Botの情報を取得
			user, err := session.User("@me")
			if err != nil {
				return fmt.Errorf("Bot情報の取得に失敗: %w", err)
			}
			log.Printf("Bot情報: %s#%s (ID: %s)", user.Username, user.Discriminator, user.ID)

			handler := discordPres.NewDiscordHandler(session, sessionService, user.ID)
			handler.SetBotUsername(user.Username)
			handler.SetupHandlers()

			// Discordに接続
			if err := session.Open(); err != nil {
				return fmt.Errorf("Discordへの接続に失敗: %w", err)
			}
			defer func() {
				if err := session.Close(); err != nil {
					log.Printf("Discordセッションのクローズに失敗: %v", err)
				}
			}()

			if err := handler.RegisterCommands(); err != nil {
				return fmt.Errorf("スラッシュコマンドの設定に失敗: %w", err)
			}

			log.Println("Discordに接続しました。Botが準備完了しました！")
			log.Println("  @Bot <夢の内容> - 夢を織り上げる")
			log.Println("  /dream text:<夢の内容> - 夢を織り上げる")

			// 終了シグナルを待機
			<-cmd.Context().Done()
			log.Println("終了シグナルを受信しました。Botを停止中...")
			return nil
		},
	}
}
