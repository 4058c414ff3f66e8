package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/config"
	"dreamweaver/internal/infrastructure/schema"
)

// OpenAIClient は、OpenAI APIとの通信を行うクライアントです
type OpenAIClient struct {
	client *openai.Client
	config *config.OpenAIConfig
}

// NewOpenAIClient は新しいOpenAIClientインスタンスを作成します
func NewOpenAIClient(apiKey string, openAIConfig *config.OpenAIConfig) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI APIキーが指定されていません")
	}
	if openAIConfig == nil {
		openAIConfig = config.DefaultOpenAIConfig()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if openAIConfig.BaseURL != "" {
		clientConfig.BaseURL = openAIConfig.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: openAIConfig,
	}, nil
}

// AnalyzeDream は、厳密なJSONスキーマを指定して夢の解析をリクエストします
func (c *OpenAIClient) AnalyzeDream(ctx context.Context, prompt string) (string, error) {
	log.Printf("OpenAI APIに夢の解析をリクエスト中: モデル=%s, %d文字", c.config.AnalysisModel, len(prompt))

	analysisSchema, err := schema.DreamAnalysis()
	if err != nil {
		return "", err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.AnalysisModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.DreamAnalysisName,
				Schema: analysisSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("OpenAI APIへのリクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("OpenAI APIからの応答取得に失敗: %w", err)
	}

	log.Printf("OpenAI APIレスポンス: Choices数=%d, トークン数=%d", len(resp.Choices), resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI APIから有効な応答が得られませんでした")
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openai.FinishReasonContentFilter:
		return "", fmt.Errorf("OpenAI APIのコンテンツフィルターによって応答がブロックされました")
	case openai.FinishReasonLength:
		return "", fmt.Errorf("OpenAI APIの応答が最大トークン数に達しました")
	}

	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("OpenAI APIが応答を拒否しました: %s", choice.Message.Refusal)
	}
	if choice.Message.Content == "" {
		return "", fmt.Errorf("OpenAI APIの応答にコンテンツが含まれていません")
	}

	log.Printf("OpenAI APIから応答を取得: %d文字", len(choice.Message.Content))
	return choice.Message.Content, nil
}

// GenerateImage は、画像を生成し、base64エンコードされた画像データを返します
func (c *OpenAIClient) GenerateImage(ctx context.Context, request application.ImageRequest) (string, error) {
	log.Printf("OpenAI APIに画像生成をリクエスト中: モデル=%s, アスペクト比=%s", c.config.ImageModel, request.AspectRatio)

	numberOfImages := request.NumberOfImages
	if numberOfImages <= 0 {
		numberOfImages = 1
	}

	imageRequest := openai.ImageRequest{
		Prompt: request.Prompt,
		Model:  c.config.ImageModel,
		N:      numberOfImages,
		Size:   imageSize(c.config.ImageModel, request.AspectRatio),
	}
	if isDallE(c.config.ImageModel) {
		imageRequest.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	} else {
		imageRequest.OutputFormat = outputFormat(request.MIMEType)
	}

	resp, err := c.client.CreateImage(ctx, imageRequest)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("画像生成リクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("画像生成リクエストに失敗: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", domain.ErrNoImageData
	}

	log.Printf("画像を取得: %d文字(base64)", len(resp.Data[0].B64JSON))
	return resp.Data[0].B64JSON, nil
}

// GenerateSpeech は、PCM形式で音声を生成し、base64エンコードして返します
// OpenAIのPCM出力は24kHz 16bit リトルエンディアン モノラルです
func (c *OpenAIClient) GenerateSpeech(ctx context.Context, request application.SpeechRequest) (string, error) {
	log.Printf("OpenAI APIに音声生成をリクエスト中: モデル=%s, ボイス=%s", c.config.SpeechModel, request.Voice)

	input := request.Phrase
	if input == "" {
		input = request.Text
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.config.SpeechModel),
		Input:          input,
		Voice:          openai.SpeechVoice(request.Voice),
		Instructions:   request.Instruction,
		ResponseFormat: openai.SpeechResponseFormatPcm,
		Speed:          c.config.SpeechSpeed,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("音声生成リクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("音声生成リクエストに失敗: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("音声データの読み込みに失敗: %w", err)
	}
	if len(data) == 0 {
		return "", domain.ErrNoAudioData
	}

	log.Printf("音声を取得: %dバイト", len(data))
	return base64.StdEncoding.EncodeToString(data), nil
}

// isDallE は、DALL-E系のモデルかどうかを判定します
func isDallE(model string) bool {
	return strings.HasPrefix(model, "dall-e")
}

// imageSize は、アスペクト比をモデルがサポートする最も近いサイズに変換します
func imageSize(model, aspectRatio string) string {
	ratio, err := domain.ParseAspectRatio(aspectRatio)
	if err != nil {
		ratio = domain.AspectRatioWide
	}

	switch {
	case model == openai.CreateImageModelDallE2:
		return openai.CreateImageSize1024x1024
	case ratio.IsLandscape():
		if isDallE(model) {
			return openai.CreateImageSize1792x1024
		}
		return openai.CreateImageSize1536x1024
	case ratio.IsPortrait():
		if isDallE(model) {
			return openai.CreateImageSize1024x1792
		}
		return openai.CreateImageSize1024x1536
	default:
		return openai.CreateImageSize1024x1024
	}
}

// outputFormat は、MIMEタイプを画像の出力形式に変換します
func outputFormat(mimeType string) string {
	switch mimeType {
	case "image/png":
		return openai.CreateImageOutputFormatPNG
	case "image/webp":
		return openai.CreateImageOutputFormatWEBP
	default:
		return openai.CreateImageOutputFormatJPEG
	}
}
