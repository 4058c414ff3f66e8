package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dreamweaver/configs"
	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/audio"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// 出力ファイル名
const (
	dreamImageFile   = "dream.jpg"
	whisperAudioFile = "whisper.wav"
	analysisFile     = "analysis.json"
)

// weaveOptions は、weaveコマンドのオプションです
type weaveOptions struct {
	outDir     string
	themes     []string
	exploreAll bool
}

func newWeaveCmd() *cobra.Command {
	var opts weaveOptions

	cmd := &cobra.Command{
		Use:   "weave [夢の内容]",
		Short: "夢を一度だけ織り上げてファイルに書き出します",
		Long: `夢の内容を解析し、画像（dream.jpg）・ささやき声（whisper.wav）・
解析結果（analysis.json）を出力先ディレクトリに書き出します。

引数を省略すると標準入力から夢の内容を読み込みます。
--explore で指定したテーマは並行して探索され、explore-<n>.jpg として保存されます。`,
		Example: `  # 引数で夢を渡す
  dreamweaver weave "硝子の街を飛んでいたら、空が割れて落ちていった"

  # 標準入力から読み込み、テーマを探索する
  cat dream.txt | dreamweaver weave --out ./out --explore glass --explore falling`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamText := strings.Join(args, " ")
			if strings.TrimSpace(dreamText) == "" {
				input, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("標準入力の読み込みに失敗: %w", err)
				}
				dreamText = string(input)
			}
			if strings.TrimSpace(dreamText) == "" {
				return domain.ErrEmptyDreamText
			}

			cfg, err := configs.LoadConfig()
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			pipeline, cleanup, err := newDreamService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return runWeave(cmd.Context(), pipeline, dreamText, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "出力先ディレクトリ")
	cmd.Flags().StringArrayVarP(&opts.themes, "explore", "e", nil, "探索するテーマ（複数指定可）")
	cmd.Flags().BoolVar(&opts.exploreAll, "explore-all", false, "解析されたすべてのテーマを探索する")

	return cmd
}

// runWeave は、夢を織り上げて結果とテーマ探索の画像を書き出します
func runWeave(ctx context.Context, pipeline application.DreamPipeline, dreamText string, opts weaveOptions, out io.Writer) error {
	dreamText = strings.TrimSpace(dreamText)
	if dreamText == "" {
		return domain.ErrEmptyDreamText
	}

	record, err := pipeline.WeaveDream(ctx, dreamText)
	if err != nil {
		return err
	}

	analysis := record.Analysis()
	themes := opts.themes
	if opts.exploreAll {
		themes = analysis.Themes
	}
	for _, theme := range themes {
		if !analysis.HasTheme(theme) {
			return fmt.Errorf("%w: %s（解析されたテーマ: %s）", domain.ErrUnknownTheme, theme, strings.Join(analysis.Themes, ", "))
		}
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗: %w", err)
	}

	written, err := writeRecord(opts.outDir, record)
	if err != nil {
		return err
	}

	explored, err := exploreThemes(ctx, pipeline, record, themes, opts.outDir)
	if err != nil {
		return err
	}
	written = append(written, explored...)

	printSummary(out, record, written)
	return nil
}

// writeRecord は、夢の画像・音声・解析結果をファイルに書き出します
func writeRecord(outDir string, record *domain.DreamscapeRecord) ([]string, error) {
	imagePath := filepath.Join(outDir, dreamImageFile)
	if err := writeImage(imagePath, record.ImageURL()); err != nil {
		return nil, err
	}

	wav, err := audio.EncodeWAV(record.Audio())
	if err != nil {
		return nil, fmt.Errorf("WAV変換に失敗: %w", err)
	}
	audioPath := filepath.Join(outDir, whisperAudioFile)
	if err := os.WriteFile(audioPath, wav, 0o644); err != nil {
		return nil, fmt.Errorf("音声ファイルの書き込みに失敗: %w", err)
	}

	analysisJSON, err := json.MarshalIndent(record.Analysis(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("解析結果のJSON変換に失敗: %w", err)
	}
	analysisPath := filepath.Join(outDir, analysisFile)
	if err := os.WriteFile(analysisPath, append(analysisJSON, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("解析結果の書き込みに失敗: %w", err)
	}

	return []string{imagePath, audioPath, analysisPath}, nil
}

// exploreThemes は、テーマを並行して探索し explore-<n>.jpg として保存します
func exploreThemes(ctx context.Context, pipeline application.DreamPipeline, record *domain.DreamscapeRecord, themes []string, outDir string) ([]string, error) {
	paths := make([]string, len(themes))

	g, ctx := errgroup.WithContext(ctx)
	for i, theme := range themes {
		g.Go(func() error {
			imageURL, err := pipeline.ExploreTheme(ctx, theme, record)
			if err != nil {
				return fmt.Errorf("テーマ「%s」の探索に失敗: %w", theme, err)
			}

			path := filepath.Join(outDir, fmt.Sprintf("explore-%d.jpg", i+1))
			if err := writeImage(path, imageURL); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

// writeImage は、data URIの画像をファイルに書き出します
func writeImage(path, imageURL string) error {
	_, data, err := domain.ParseImageDataURI(imageURL)
	if err != nil {
		return fmt.Errorf("画像の取り出しに失敗: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("画像ファイルの書き込みに失敗: %w", err)
	}
	return nil
}

// printSummary は、織り上げた夢の概要を出力します
func printSummary(out io.Writer, record *domain.DreamscapeRecord, written []string) {
	analysis := record.Analysis()

	fmt.Fprintf(out, "🌙 %s\n", analysis.Title)
	fmt.Fprintf(out, "   ムード: %s\n", analysis.Mood)
	fmt.Fprintf(out, "   テーマ: %s\n", strings.Join(analysis.Themes, ", "))
	fmt.Fprintf(out, "   ささやき: 「%s」(%.1f秒)\n", analysis.AudioPrompt, record.Audio().Duration().Seconds())
	for _, path := range written {
		fmt.Fprintf(out, "   → %s\n", path)
	}
}
