package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd は、dreamweaverのルートコマンドを作成します
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dreamweaver",
		Short: "夢の記述から絵とささやき声の夢の風景を織り上げます",
		Long: `dreamweaver は、夢の記述を解析し、その本質から幻想的な画像と
ささやき声の音声を同時に生成するツールです。

Discord Bot、HTTP API、単発のCLIの3つの使い方ができます。`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .envファイルがあれば読み込む（エラーは無視）
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newBotCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newWeaveCmd())

	return cmd
}
