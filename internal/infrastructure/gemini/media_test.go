package gemini

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"

	"google.golang.org/genai"
)

func TestCreateImageConfig(t *testing.T) {
	cfg := createImageConfig(application.ImageRequest{
		Prompt:         "V",
		AspectRatio:    "16:9",
		NumberOfImages: 1,
		MIMEType:       "image/jpeg",
	})

	if cfg.NumberOfImages != 1 || cfg.AspectRatio != "16:9" || cfg.OutputMIMEType != "image/jpeg" {
		t.Errorf("画像生成設定が正しくありません: %+v", cfg)
	}

	defaults := createImageConfig(application.ImageRequest{Prompt: "V"})
	if defaults.NumberOfImages != 1 || defaults.OutputMIMEType != domain.JPEGMIMEType {
		t.Errorf("デフォルトの画像生成設定が正しくありません: %+v", defaults)
	}
}

func TestProcessImageResponse(t *testing.T) {
	result, err := processImageResponse(&genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{{
			Image: &genai.Image{ImageBytes: []byte("ABC"), MIMEType: "image/jpeg"},
		}},
	})
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result != base64.StdEncoding.EncodeToString([]byte("ABC")) {
		t.Errorf("期待される結果: QUJD, 実際の結果: %s", result)
	}
}

func TestProcessImageResponse_NoImage(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateImagesResponse
	}{
		{"nilレスポンス", nil},
		{"画像なし", &genai.GenerateImagesResponse{}},
		{"nil画像", &genai.GenerateImagesResponse{GeneratedImages: []*genai.GeneratedImage{{}}}},
		{"空のバイト列", &genai.GenerateImagesResponse{GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := processImageResponse(tt.resp); !errors.Is(err, domain.ErrNoImageData) {
				t.Errorf("ErrNoImageData が期待されましたが、%v が返されました", err)
			}
		})
	}
}

func TestProcessImageResponse_Filtered(t *testing.T) {
	_, err := processImageResponse(&genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{{RAIFilteredReason: "violence"}},
	})
	if !errors.Is(err, domain.ErrNoImageData) {
		t.Errorf("ErrNoImageData が期待されましたが、%v が返されました", err)
	}
	if err == nil || !strings.Contains(err.Error(), "violence") {
		t.Errorf("エラーメッセージにブロック理由が含まれていません: %v", err)
	}
}

func TestCreateSpeechConfig(t *testing.T) {
	cfg := createSpeechConfig("Kore")

	if len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != "AUDIO" {
		t.Errorf("ResponseModalitiesが正しくありません: %v", cfg.ResponseModalities)
	}
	if cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
		t.Errorf("期待されるボイス: Kore, 実際: %s", cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	}
}

func TestProcessSpeechResponse(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0xC0}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "ignored"},
				{InlineData: &genai.Blob{Data: pcm, MIMEType: "audio/L16;codec=pcm;rate=24000"}},
			}},
		}},
	}

	result, err := processSpeechResponse(resp)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result != base64.StdEncoding.EncodeToString(pcm) {
		t.Errorf("期待される結果: %s, 実際の結果: %s", base64.StdEncoding.EncodeToString(pcm), result)
	}
}

func TestProcessSpeechResponse_NoInlineData(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "no audio"}}},
		}},
	}

	if _, err := processSpeechResponse(resp); !errors.Is(err, domain.ErrNoAudioData) {
		t.Errorf("ErrNoAudioData が期待されましたが、%v が返されました", err)
	}
}
