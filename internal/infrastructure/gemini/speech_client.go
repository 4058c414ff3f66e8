package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"

	"google.golang.org/genai"
)

// GenerateSpeech は、TTSモデルで音声を生成し、base64エンコードされたPCM16データを返します
func (g *GeminiAPIClient) GenerateSpeech(ctx context.Context, request application.SpeechRequest) (string, error) {
	log.Printf("Gemini APIに音声生成をリクエスト中: モデル=%s, ボイス=%s", g.config.SpeechModel, request.Voice)

	resp, err := g.client.Models.GenerateContent(ctx, g.config.SpeechModel, genai.Text(request.Text), createSpeechConfig(request.Voice))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("音声生成リクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("音声生成リクエストに失敗: %w", err)
	}

	return processSpeechResponse(resp)
}

// createSpeechConfig は、音声生成用の設定を作成します
func createSpeechConfig(voice string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: voice,
				},
			},
		},
	}
}

// processSpeechResponse は、レスポンスから最初のインライン音声データを取り出します
func processSpeechResponse(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := validateCandidate(resp)
	if err != nil {
		return "", err
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			log.Printf("音声を取得: %dバイト, MIMEタイプ=%s", len(part.InlineData.Data), part.InlineData.MIMEType)
			return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}

	return "", domain.ErrNoAudioData
}
