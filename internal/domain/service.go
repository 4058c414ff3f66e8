package domain

import (
	"fmt"
	"strings"
)

// 画像生成プロンプトに付与するスタイル修飾子
const ImageStyleSuffix = "ethereal, dreamlike, surrealist painting, high detail, cinematic lighting"

// 音声生成時に音声フレーズを包む指示
const WhisperInstruction = "Whisper softly and slowly"

// PromptGenerator は、夢の原文と解析結果から各生成リクエスト用のプロンプトを組み立てるビジネスロジックを担当します
type PromptGenerator struct {
	styleSuffix string
}

// NewPromptGenerator は新しいPromptGeneratorインスタンスを作成します
func NewPromptGenerator(styleSuffix string) *PromptGenerator {
	if styleSuffix == "" {
		styleSuffix = ImageStyleSuffix
	}

	return &PromptGenerator{
		styleSuffix: styleSuffix,
	}
}

// AnalysisPrompt は、夢の解析を依頼するプロンプトを生成します
func (pg *PromptGenerator) AnalysisPrompt(dreamText string) string {
	var builder strings.Builder

	builder.WriteString("Analyze the following dream description. ")
	builder.WriteString("Extract its core essence and return a JSON object with the specified schema. ")
	builder.WriteString("The visual_prompt should be a rich, artistic, and surreal prompt for an image generation model. ")
	builder.WriteString("The audio_prompt should be a short, whispered, ethereal phrase (5-10 words) that captures the dream's feeling. ")
	builder.WriteString(fmt.Sprintf("Dream: \"%s\"", dreamText))

	return builder.String()
}

// ImagePrompt は、画像生成用のプロンプトにスタイル修飾子を付与します
func (pg *PromptGenerator) ImagePrompt(visualPrompt string) string {
	return fmt.Sprintf("%s, %s", visualPrompt, pg.styleSuffix)
}

// SpeechPrompt は、音声フレーズをささやき声の指示で包みます
func (pg *PromptGenerator) SpeechPrompt(audioPrompt string) string {
	return fmt.Sprintf("%s: %s", WhisperInstruction, audioPrompt)
}

// ExplorationPrompt は、テーマ探索用のプロンプトを生成します
// 画像生成時にはこの結果にさらに ImagePrompt が適用されます
func (pg *PromptGenerator) ExplorationPrompt(theme string, record *DreamscapeRecord) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("A focused, detailed, close-up view exploring the theme of \"%s\". ", theme))
	builder.WriteString(fmt.Sprintf("This is part of a larger dream about \"%s\". ", record.OriginalText()))
	builder.WriteString(fmt.Sprintf("Style: %s", record.Analysis().VisualPrompt))

	return builder.String()
}
