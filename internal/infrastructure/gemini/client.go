package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dreamweaver/internal/infrastructure/config"
	"dreamweaver/internal/infrastructure/schema"

	"google.golang.org/genai"
)

// GeminiAPIClient は、Gemini APIとの通信を行うクライアントです
type GeminiAPIClient struct {
	client *genai.Client
	config *config.GeminiConfig
}

// NewGeminiAPIClient は新しいGeminiAPIClientインスタンスを作成します
func NewGeminiAPIClient(apiKey string, geminiConfig *config.GeminiConfig) (*GeminiAPIClient, error) {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}

	ctx := context.Background()
	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("Gemini APIクライアントの作成に失敗: %w", err)
	}

	return &GeminiAPIClient{
		client: client,
		config: geminiConfig,
	}, nil
}

// createAnalysisConfig は、夢の解析用の生成設定を作成します
func (g *GeminiAPIClient) createAnalysisConfig() (*genai.GenerateContentConfig, error) {
	analysisSchema, err := schema.DreamAnalysis()
	if err != nil {
		return nil, err
	}

	return &genai.GenerateContentConfig{
		MaxOutputTokens:  g.config.MaxTokens,
		Temperature:      &g.config.Temperature,
		TopP:             &g.config.TopP,
		ResponseMIMEType: "application/json",
		ResponseSchema:   convSchema(analysisSchema),
		SafetySettings:   createSafetySettings(),
	}, nil
}

// AnalyzeDream は、解析プロンプトを送信し、スキーマに従ったJSONテキストを返します
func (g *GeminiAPIClient) AnalyzeDream(ctx context.Context, prompt string) (string, error) {
	log.Printf("Gemini APIに夢の解析をリクエスト中: モデル=%s, %d文字", g.config.AnalysisModel, len(prompt))

	generateConfig, err := g.createAnalysisConfig()
	if err != nil {
		return "", err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.AnalysisModel, genai.Text(prompt), generateConfig)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("Gemini APIへのリクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("Gemini APIからの応答取得に失敗: %w", err)
	}

	return processResponse(resp)
}

// validateCandidate は、応答の最初の候補を検証して返します
func validateCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("Gemini APIがプロンプトをブロックしました: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("Gemini APIから有効な応答が得られませんでした")
	}

	candidate := resp.Candidates[0]
	if candidate == nil {
		return nil, fmt.Errorf("Gemini APIから有効な応答が得られませんでした")
	}

	log.Printf("Gemini APIレスポンス: Candidates数=%d, FinishReason=%s", len(resp.Candidates), candidate.FinishReason)

	// FinishReasonをチェックして安全フィルターによるブロックを検出
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return nil, fmt.Errorf("Gemini APIの安全フィルターによって応答がブロックされました: %s", formatSafetyRatings(candidate.SafetyRatings))
	case genai.FinishReasonRecitation:
		return nil, fmt.Errorf("Gemini APIが著作権保護された内容を検出しました")
	case genai.FinishReasonMaxTokens:
		return nil, fmt.Errorf("Gemini APIの応答が最大トークン数に達しました")
	}

	if candidate.Content == nil {
		return nil, fmt.Errorf("Gemini APIの応答にContentが含まれていません")
	}

	if len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("Gemini APIの応答にコンテンツが含まれていません")
	}

	return candidate, nil
}

// processResponse は、Gemini APIのレスポンスからテキストを取り出します
func processResponse(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := validateCandidate(resp)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			builder.WriteString(part.Text)
		}
	}

	result := builder.String()
	if result == "" {
		return "", fmt.Errorf("Gemini APIの応答にテキストが含まれていません")
	}

	log.Printf("Gemini APIから応答を取得: %d文字", len(result))
	return result, nil
}

// Close は、Gemini APIクライアントを閉じます
func (g *GeminiAPIClient) Close() error {
	// genai.ClientにはCloseメソッドがないため、何もしない
	return nil
}
