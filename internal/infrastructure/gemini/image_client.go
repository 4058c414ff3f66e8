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

// GenerateImage は、Imagenモデルで画像を生成し、base64エンコードされた画像データを返します
func (g *GeminiAPIClient) GenerateImage(ctx context.Context, request application.ImageRequest) (string, error) {
	log.Printf("Gemini APIに画像生成をリクエスト中: モデル=%s, アスペクト比=%s", g.config.ImageModel, request.AspectRatio)
	log.Printf("プロンプト: %s", request.Prompt)

	resp, err := g.client.Models.GenerateImages(ctx, g.config.ImageModel, request.Prompt, createImageConfig(request))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("画像生成リクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("画像生成リクエストに失敗: %w", err)
	}

	return processImageResponse(resp)
}

// createImageConfig は、画像生成用の設定を作成します
func createImageConfig(request application.ImageRequest) *genai.GenerateImagesConfig {
	numberOfImages := request.NumberOfImages
	if numberOfImages <= 0 {
		numberOfImages = 1
	}
	mimeType := request.MIMEType
	if mimeType == "" {
		mimeType = domain.JPEGMIMEType
	}

	return &genai.GenerateImagesConfig{
		NumberOfImages:   int32(numberOfImages),
		AspectRatio:      request.AspectRatio,
		OutputMIMEType:   mimeType,
		IncludeRAIReason: true,
	}
}

// processImageResponse は、画像生成レスポンスから最初の画像を取り出します
func processImageResponse(resp *genai.GenerateImagesResponse) (string, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return "", domain.ErrNoImageData
	}

	log.Printf("画像生成レスポンス: 画像数=%d", len(resp.GeneratedImages))

	generated := resp.GeneratedImages[0]
	if generated == nil {
		return "", domain.ErrNoImageData
	}
	if generated.RAIFilteredReason != "" {
		return "", fmt.Errorf("安全フィルターにより画像がブロックされました: %s: %w", generated.RAIFilteredReason, domain.ErrNoImageData)
	}
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		return "", domain.ErrNoImageData
	}

	log.Printf("画像を取得: %dバイト, MIMEタイプ=%s", len(generated.Image.ImageBytes), generated.Image.MIMEType)
	return base64.StdEncoding.EncodeToString(generated.Image.ImageBytes), nil
}
