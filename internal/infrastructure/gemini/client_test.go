package gemini

import (
	"strings"
	"testing"

	"dreamweaver/internal/infrastructure/config"

	"google.golang.org/genai"
)

func TestDefaultConfig(t *testing.T) {
	config := config.DefaultGeminiConfig()

	if config.AnalysisModel != "gemini-2.5-pro" {
		t.Errorf("期待されるAnalysisModel: gemini-2.5-pro, 実際: %s", config.AnalysisModel)
	}
	if config.ImageModel != "imagen-4.0-generate-001" {
		t.Errorf("期待されるImageModel: imagen-4.0-generate-001, 実際: %s", config.ImageModel)
	}
	if config.SpeechModel != "gemini-2.5-flash-preview-tts" {
		t.Errorf("期待されるSpeechModel: gemini-2.5-flash-preview-tts, 実際: %s", config.SpeechModel)
	}
	if config.MaxTokens != 8192 {
		t.Errorf("期待されるMaxTokens: 8192, 実際: %d", config.MaxTokens)
	}
}

func TestNewGeminiAPIClient_WithNilConfig(t *testing.T) {
	// 設定がnilの場合、デフォルト設定が使用されることを確認
	client, err := NewGeminiAPIClient("invalid-api-key", nil)
	if err != nil {
		t.Logf("APIキーが無効でエラーが発生: %v", err)
		return
	}
	defer client.Close()

	if client.config.AnalysisModel != "gemini-2.5-pro" {
		t.Errorf("デフォルト設定が使用されていません: %s", client.config.AnalysisModel)
	}
}

func TestGeminiAPIClient_createAnalysisConfig(t *testing.T) {
	client := &GeminiAPIClient{config: config.DefaultGeminiConfig()}

	generateConfig, err := client.createAnalysisConfig()
	if err != nil {
		t.Fatalf("生成設定の作成に失敗: %v", err)
	}

	if generateConfig.ResponseMIMEType != "application/json" {
		t.Errorf("期待されるResponseMIMEType: application/json, 実際: %s", generateConfig.ResponseMIMEType)
	}
	if generateConfig.ResponseSchema == nil || generateConfig.ResponseSchema.Type != genai.TypeObject {
		t.Fatalf("ResponseSchemaが正しくありません: %+v", generateConfig.ResponseSchema)
	}
	if len(generateConfig.ResponseSchema.Required) != 5 {
		t.Errorf("必須フィールドが5つではありません: %v", generateConfig.ResponseSchema.Required)
	}
	if len(generateConfig.SafetySettings) != 4 {
		t.Errorf("安全フィルター設定が4つではありません: %d", len(generateConfig.SafetySettings))
	}
	if generateConfig.MaxOutputTokens != 8192 {
		t.Errorf("期待されるMaxOutputTokens: 8192, 実際: %d", generateConfig.MaxOutputTokens)
	}
}

func TestProcessResponse(t *testing.T) {
	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		expected    string
		errContains string
	}{
		{
			name: "テキストを連結",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					FinishReason: genai.FinishReasonStop,
					Content: &genai.Content{Parts: []*genai.Part{
						{Text: `{"title":`},
						nil,
						{Text: `"T"}`},
					}},
				}},
			},
			expected: `{"title":"T"}`,
		},
		{
			name:        "候補なし",
			resp:        &genai.GenerateContentResponse{},
			errContains: "有効な応答",
		},
		{
			name: "プロンプトのブロック",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			errContains: "ブロック",
		},
		{
			name: "安全フィルター",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					FinishReason: genai.FinishReasonSafety,
					SafetyRatings: []*genai.SafetyRating{
						{Category: genai.HarmCategoryHarassment, Probability: genai.HarmProbabilityHigh},
					},
				}},
			},
			errContains: "ハラスメント: 高レベル",
		},
		{
			name: "著作権",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonRecitation}},
			},
			errContains: "著作権",
		},
		{
			name: "最大トークン",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
			},
			errContains: "最大トークン",
		},
		{
			name: "Contentなし",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
			},
			errContains: "Content",
		},
		{
			name: "Partsなし",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
			},
			errContains: "コンテンツ",
		},
		{
			name: "テキストなし",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{}}}}},
			},
			errContains: "テキスト",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := processResponse(tt.resp)
			if tt.errContains != "" {
				if err == nil {
					t.Fatalf("エラーが期待されましたが、結果 %q が返されました", result)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("エラーメッセージに %q が含まれていません: %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if result != tt.expected {
				t.Errorf("期待される結果: %s, 実際の結果: %s", tt.expected, result)
			}
		})
	}
}

func TestGeminiAPIClient_Close(t *testing.T) {
	client := &GeminiAPIClient{}
	if err := client.Close(); err != nil {
		t.Errorf("Closeでエラーが発生: %v", err)
	}
}
