package application

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/config"
)

// DreamPipeline は、夢の織り上げとテーマ探索を行うパイプラインのインターフェースです
type DreamPipeline interface {
	WeaveDream(ctx context.Context, dreamText string) (*domain.DreamscapeRecord, error)
	ExploreTheme(ctx context.Context, theme string, record *domain.DreamscapeRecord) (string, error)
}

// DreamService は、夢の解析から画像・音声の生成までを制御するアプリケーションサービスです
type DreamService struct {
	client          DreamClient
	promptGenerator *domain.PromptGenerator
	config          *config.DreamConfig
	audioFormat     domain.AudioFormat
}

// NewDreamService は新しいDreamServiceインスタンスを作成します
func NewDreamService(client DreamClient, dreamConfig *config.DreamConfig) (*DreamService, error) {
	if client == nil {
		return nil, fmt.Errorf("DreamClientが指定されていません")
	}
	if dreamConfig == nil {
		return nil, fmt.Errorf("DreamConfigが指定されていません")
	}

	format := domain.AudioFormat{SampleRate: dreamConfig.SampleRate, Channels: dreamConfig.Channels}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("音声フォーマットの設定が不正です: %w", err)
	}

	return &DreamService{
		client:          client,
		promptGenerator: domain.NewPromptGenerator(""),
		config:          dreamConfig,
		audioFormat:     format,
	}, nil
}

// WeaveDream は、夢の内容を解析し、画像と音声を並行して生成してDreamscapeRecordを作成します
// いずれかの段階で失敗した場合は、その段階を示す *domain.StageError を返します
func (s *DreamService) WeaveDream(ctx context.Context, dreamText string) (*domain.DreamscapeRecord, error) {
	log.Printf("夢の織り上げを開始: %d文字", len([]rune(dreamText)))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// 1. 夢を解析
	analysis, err := s.analyze(ctx, dreamText)
	if err != nil {
		return nil, err
	}
	log.Printf("夢の解析が完了: タイトル=%s, ムード=%s, テーマ数=%d", analysis.Title, analysis.Mood, len(analysis.Themes))

	// 2. 画像と音声を並行して生成
	var (
		imageURL string
		audio    domain.SampleBuffer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.generateImage(gctx, s.promptGenerator.ImagePrompt(analysis.VisualPrompt))
		if err != nil {
			return err
		}
		imageURL = url
		return nil
	})
	g.Go(func() error {
		buf, err := s.generateAudio(gctx, analysis.AudioPrompt)
		if err != nil {
			return err
		}
		audio = buf
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("夢の織り上げに失敗: %v", err)
		return nil, err
	}

	log.Printf("夢の織り上げが完了: 音声=%v", audio.Duration())
	return domain.NewDreamscapeRecord(analysis, imageURL, audio, dreamText), nil
}

// ExploreTheme は、記録済みの夢の中から1つのテーマに焦点を当てた画像を生成します
func (s *DreamService) ExploreTheme(ctx context.Context, theme string, record *domain.DreamscapeRecord) (string, error) {
	if record == nil {
		return "", domain.NewStageError(domain.StageImage, fmt.Errorf("夢のレコードが指定されていません"))
	}

	log.Printf("テーマの探索を開始: %s", theme)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prompt := s.promptGenerator.ExplorationPrompt(theme, record)
	imageURL, err := s.generateImage(ctx, s.promptGenerator.ImagePrompt(prompt))
	if err != nil {
		log.Printf("テーマの探索に失敗: %s: %v", theme, err)
		return "", err
	}

	log.Printf("テーマの探索が完了: %s", theme)
	return imageURL, nil
}

// analyze は、夢の解析リクエストを送信し結果を検証します
func (s *DreamService) analyze(ctx context.Context, dreamText string) (domain.DreamAnalysis, error) {
	text, err := s.client.AnalyzeDream(ctx, s.promptGenerator.AnalysisPrompt(dreamText))
	if err != nil {
		return domain.DreamAnalysis{}, s.stageError(ctx, domain.StageAnalysis, err)
	}

	analysis, err := domain.ParseDreamAnalysis(text)
	if err != nil {
		return domain.DreamAnalysis{}, domain.NewStageError(domain.StageAnalysis, err)
	}

	return analysis, nil
}

// generateImage は、画像を生成しdata URIに変換します
func (s *DreamService) generateImage(ctx context.Context, prompt string) (string, error) {
	data, err := s.client.GenerateImage(ctx, ImageRequest{
		Prompt:         prompt,
		AspectRatio:    s.config.AspectRatio,
		NumberOfImages: 1,
		MIMEType:       domain.JPEGMIMEType,
	})
	if err != nil {
		return "", s.stageError(ctx, domain.StageImage, err)
	}
	if data == "" {
		return "", domain.NewStageError(domain.StageImage, domain.ErrNoImageData)
	}

	return domain.ImageDataURI(domain.JPEGMIMEType, data), nil
}

// generateAudio は、ささやき声の音声を生成しサンプルにデコードします
func (s *DreamService) generateAudio(ctx context.Context, audioPrompt string) (domain.SampleBuffer, error) {
	payload, err := s.client.GenerateSpeech(ctx, SpeechRequest{
		Text:        s.promptGenerator.SpeechPrompt(audioPrompt),
		Phrase:      audioPrompt,
		Instruction: domain.WhisperInstruction,
		Voice:       s.config.VoiceName,
	})
	if err != nil {
		return domain.SampleBuffer{}, s.stageError(ctx, domain.StageAudio, err)
	}
	if payload == "" {
		return domain.SampleBuffer{}, domain.NewStageError(domain.StageAudio, domain.ErrNoAudioData)
	}

	buf, err := domain.DecodeAudioWithFormat(payload, s.audioFormat)
	if err != nil {
		return domain.SampleBuffer{}, domain.NewStageError(domain.StageAudio, err)
	}

	return buf, nil
}

// stageError は、タイムアウトを区別して段階エラーを作成します
func (s *DreamService) stageError(ctx context.Context, stage domain.Stage, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return domain.NewStageError(stage, fmt.Errorf("%sがタイムアウトしました: %w", stage.Label(), err))
	}
	return domain.NewStageError(stage, err)
}

// withTimeout は、設定されたリクエストタイムアウトをコンテキストに適用します
func (s *DreamService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
