package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DreamAnalysis は、夢の解析結果を表す値オブジェクトです
type DreamAnalysis struct {
	Title        string   `json:"title" jsonschema:"A poetic and evocative title for the dream."`
	Mood         string   `json:"mood" jsonschema:"The dominant mood or emotion of the dream (e.g., mysterious, anxious, joyful)."`
	Themes       []string `json:"themes" jsonschema:"A list of 3-5 key themes or symbols."`
	VisualPrompt string   `json:"visual_prompt" jsonschema:"A detailed, artistic prompt for an image generator, focusing on surrealism and dreamlike qualities."`
	AudioPrompt  string   `json:"audio_prompt" jsonschema:"A very short, whispered, ethereal phrase encapsulating the dream's core feeling."`
}

// ParseDreamAnalysis は、解析応答のJSONテキストをDreamAnalysisに変換し、必須フィールドを検証します
func ParseDreamAnalysis(text string) (DreamAnalysis, error) {
	var analysis DreamAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &analysis); err != nil {
		return DreamAnalysis{}, fmt.Errorf("解析結果のJSONパースに失敗: %w", err)
	}

	if err := analysis.Validate(); err != nil {
		return DreamAnalysis{}, err
	}

	return analysis, nil
}

// Validate は、5つの必須フィールドがすべて空でないことを検証します
func (a DreamAnalysis) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"title", a.Title},
		{"mood", a.Mood},
		{"visual_prompt", a.VisualPrompt},
		{"audio_prompt", a.AudioPrompt},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}

	if len(a.Themes) == 0 {
		return fmt.Errorf("%w: themes", ErrMissingField)
	}
	for i, theme := range a.Themes {
		if strings.TrimSpace(theme) == "" {
			return fmt.Errorf("%w: themes[%d]", ErrMissingField, i)
		}
	}

	return nil
}

// HasTheme は、指定されたテーマが解析結果に含まれているかを判定します
func (a DreamAnalysis) HasTheme(theme string) bool {
	for _, t := range a.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// DreamscapeRecord は、夢の織り上げ結果を表す不変のレコードです
type DreamscapeRecord struct {
	analysis     DreamAnalysis
	imageURL     string
	audio        SampleBuffer
	originalText string
}

// NewDreamscapeRecord は新しいDreamscapeRecordを作成します
func NewDreamscapeRecord(analysis DreamAnalysis, imageURL string, audio SampleBuffer, originalText string) *DreamscapeRecord {
	themes := make([]string, len(analysis.Themes))
	copy(themes, analysis.Themes)
	analysis.Themes = themes

	return &DreamscapeRecord{
		analysis:     analysis,
		imageURL:     imageURL,
		audio:        audio,
		originalText: originalText,
	}
}

// Analysis は解析結果のコピーを返します
func (r *DreamscapeRecord) Analysis() DreamAnalysis {
	a := r.analysis
	a.Themes = make([]string, len(r.analysis.Themes))
	copy(a.Themes, r.analysis.Themes)
	return a
}

// ImageURL は画像のdata URIを返します
func (r *DreamscapeRecord) ImageURL() string {
	return r.imageURL
}

// Audio はデコード済みの音声サンプルを返します
func (r *DreamscapeRecord) Audio() SampleBuffer {
	return r.audio
}

// OriginalText は入力された夢の原文を返します
func (r *DreamscapeRecord) OriginalText() string {
	return r.originalText
}
