package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"dreamweaver/configs"
	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/config"
)

// MockDreamPipeline は、テスト用のパイプライン実装です
type MockDreamPipeline struct {
	mu         sync.Mutex
	explored   []string
	weaveErr   error
	exploreErr error
}

func (m *MockDreamPipeline) WeaveDream(ctx context.Context, dreamText string) (*domain.DreamscapeRecord, error) {
	if m.weaveErr != nil {
		return nil, m.weaveErr
	}

	analysis := domain.DreamAnalysis{
		Title:        "硝子の街",
		Mood:         "mysterious",
		Themes:       []string{"flying", "glass", "falling"},
		VisualPrompt: "a vast glass city under a violet sky",
		AudioPrompt:  "the sky remembers you",
	}
	imageURL := domain.ImageDataURI(domain.JPEGMIMEType, base64.StdEncoding.EncodeToString([]byte("dream-image")))
	audio := domain.SampleBuffer{Format: domain.L16Mono24K, Samples: []float32{0, 0.25, -0.25}}
	return domain.NewDreamscapeRecord(analysis, imageURL, audio, dreamText), nil
}

func (m *MockDreamPipeline) ExploreTheme(ctx context.Context, theme string, record *domain.DreamscapeRecord) (string, error) {
	m.mu.Lock()
	m.explored = append(m.explored, theme)
	m.mu.Unlock()

	if m.exploreErr != nil {
		return "", m.exploreErr
	}
	return domain.ImageDataURI(domain.JPEGMIMEType, base64.StdEncoding.EncodeToString([]byte("explore-"+theme))), nil
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"bot", "serve", "weave"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("サブコマンド %s が登録されていません: %v", name, err)
		}
	}

	serve, _, _ := root.Find([]string{"serve"})
	if serve.Flags().Lookup("port") == nil {
		t.Error("serveコマンドに--portフラグがありません")
	}

	weave, _, _ := root.Find([]string{"weave"})
	for _, flag := range []string{"out", "explore", "explore-all"} {
		if weave.Flags().Lookup(flag) == nil {
			t.Errorf("weaveコマンドに--%sフラグがありません", flag)
		}
	}
}

func TestWeaveCmd_EmptyStdin(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"weave"})
	root.SetIn(strings.NewReader("   \n"))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	if !errors.Is(err, domain.ErrEmptyDreamText) {
		t.Errorf("ErrEmptyDreamText が期待されました: %v", err)
	}
}

func TestRunWeave_WritesFiles(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	pipeline := &MockDreamPipeline{}
	var out bytes.Buffer

	err := runWeave(context.Background(), pipeline, "  硝子の街を飛んでいた  ", weaveOptions{outDir: outDir}, &out)
	if err != nil {
		t.Fatalf("夢の織り上げに失敗: %v", err)
	}

	image, err := os.ReadFile(filepath.Join(outDir, "dream.jpg"))
	if err != nil || string(image) != "dream-image" {
		t.Errorf("画像ファイルが正しくありません: %q, %v", image, err)
	}

	wav, err := os.ReadFile(filepath.Join(outDir, "whisper.wav"))
	if err != nil {
		t.Fatalf("音声ファイルの読み込みに失敗: %v", err)
	}
	if len(wav) != 44+3*2 || string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("WAVファイルが正しくありません: %d bytes", len(wav))
	}

	analysisJSON, err := os.ReadFile(filepath.Join(outDir, "analysis.json"))
	if err != nil {
		t.Fatalf("解析結果の読み込みに失敗: %v", err)
	}
	var analysis domain.DreamAnalysis
	if err := json.Unmarshal(analysisJSON, &analysis); err != nil {
		t.Fatalf("解析結果のデコードに失敗: %v", err)
	}
	if analysis.Title != "硝子の街" || len(analysis.Themes) != 3 {
		t.Errorf("解析結果が正しくありません: %+v", analysis)
	}

	if len(pipeline.explored) != 0 {
		t.Errorf("テーマ指定なしで探索が実行されました: %v", pipeline.explored)
	}
	if !strings.Contains(out.String(), "硝子の街") {
		t.Errorf("概要にタイトルが含まれていません: %s", out.String())
	}
}

func TestRunWeave_ExploresThemesConcurrently(t *testing.T) {
	outDir := t.TempDir()
	pipeline := &MockDreamPipeline{}

	opts := weaveOptions{outDir: outDir, themes: []string{"glass", "falling"}}
	if err := runWeave(context.Background(), pipeline, "夢", opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("夢の織り上げに失敗: %v", err)
	}

	expected := map[string]string{
		"explore-1.jpg": "explore-glass",
		"explore-2.jpg": "explore-falling",
	}
	for name, content := range expected {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil || string(data) != content {
			t.Errorf("%s が正しくありません: %q, %v", name, data, err)
		}
	}
}

func TestRunWeave_ExploreAll(t *testing.T) {
	pipeline := &MockDreamPipeline{}

	opts := weaveOptions{outDir: t.TempDir(), exploreAll: true}
	if err := runWeave(context.Background(), pipeline, "夢", opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("夢の織り上げに失敗: %v", err)
	}

	if len(pipeline.explored) != 3 {
		t.Errorf("すべてのテーマが探索されていません: %v", pipeline.explored)
	}
}

func TestRunWeave_UnknownTheme(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	pipeline := &MockDreamPipeline{}

	opts := weaveOptions{outDir: outDir, themes: []string{"ocean"}}
	err := runWeave(context.Background(), pipeline, "夢", opts, &bytes.Buffer{})

	if !errors.Is(err, domain.ErrUnknownTheme) {
		t.Errorf("ErrUnknownTheme が期待されました: %v", err)
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Error("テーマが不正な場合はファイルを書き出すべきではありません")
	}
}

func TestRunWeave_Errors(t *testing.T) {
	stageErr := domain.NewStageError(domain.StageAnalysis, domain.ErrMissingField)

	if err := runWeave(context.Background(), &MockDreamPipeline{}, "  ", weaveOptions{outDir: t.TempDir()}, &bytes.Buffer{}); !errors.Is(err, domain.ErrEmptyDreamText) {
		t.Errorf("ErrEmptyDreamText が期待されました: %v", err)
	}

	err := runWeave(context.Background(), &MockDreamPipeline{weaveErr: stageErr}, "夢", weaveOptions{outDir: t.TempDir()}, &bytes.Buffer{})
	if !errors.Is(err, domain.ErrAnalysis) {
		t.Errorf("解析段階のエラーが期待されました: %v", err)
	}

	pipeline := &MockDreamPipeline{exploreErr: domain.NewStageError(domain.StageImage, domain.ErrNoImageData)}
	opts := weaveOptions{outDir: t.TempDir(), themes: []string{"glass"}}
	err = runWeave(context.Background(), pipeline, "夢", opts, &bytes.Buffer{})
	if !errors.Is(err, domain.ErrImageGeneration) {
		t.Errorf("画像生成段階のエラーが期待されました: %v", err)
	}
}

func TestNewDreamClient(t *testing.T) {
	cfg := &configs.Config{
		OpenAI: *config.DefaultOpenAIConfig(),
		Dream:  *config.DefaultDreamConfig(),
	}

	cfg.Dream.Provider = "unknown"
	if _, _, err := newDreamClient(cfg); err == nil {
		t.Error("未知のプロバイダーはエラーになるべきです")
	}

	cfg.Dream.Provider = config.ProviderOpenAI
	if _, _, err := newDreamClient(cfg); err == nil {
		t.Error("APIキーが空の場合はエラーになるべきです")
	}

	cfg.OpenAI.APIKey = "sk-test"
	client, cleanup, err := newDreamClient(cfg)
	if err != nil {
		t.Fatalf("OpenAIクライアントの作成に失敗: %v", err)
	}
	defer cleanup()
	if client == nil {
		t.Error("クライアントがnilです")
	}

	service, cleanup2, err := newSessionService(cfg)
	if err != nil {
		t.Fatalf("セッションサービスの作成に失敗: %v", err)
	}
	defer cleanup2()
	if service == nil {
		t.Error("セッションサービスがnilです")
	}
}

func TestEvictionInterval(t *testing.T) {
	tests := []struct {
		ttl      time.Duration
		expected time.Duration
	}{
		{time.Hour, 15 * time.Minute},
		{time.Minute, 15 * time.Second},
		{2 * time.Second, time.Second},
	}

	for _, tt := range tests {
		if got := evictionInterval(tt.ttl); got != tt.expected {
			t.Errorf("保持期間 %v の間隔: 期待値 %v, 実際 %v", tt.ttl, tt.expected, got)
		}
	}
}
