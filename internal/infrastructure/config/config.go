package config

import "time"

// プロバイダー名
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// GeminiConfig は、Gemini API関連の設定を定義します
type GeminiConfig struct {
	APIKey        string
	AnalysisModel string // 夢解析用モデル名
	ImageModel    string // 画像生成用モデル名
	SpeechModel   string // 音声生成用モデル名
	MaxTokens     int32
	Temperature   float32
	TopP          float32
}

// OpenAIConfig は、OpenAI API関連の設定を定義します
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string // 空の場合はSDKのデフォルトを使用
	AnalysisModel string
	ImageModel    string
	SpeechModel   string
	SpeechSpeed   float64
}

// DreamConfig は、夢の織り上げ処理に関する設定を定義します
type DreamConfig struct {
	Provider       string
	VoiceName      string
	AspectRatio    string
	SampleRate     int
	Channels       int
	RequestTimeout time.Duration // 0以下の場合はタイムアウトなし
	SessionTTL     time.Duration // 0以下の場合はセッションを自動で破棄しない
}

// DiscordConfig は、Discord関連の設定を定義します
type DiscordConfig struct {
	BotToken string
}

// ServerConfig は、HTTPサーバー関連の設定を定義します
type ServerConfig struct {
	Port string
}

// OpenAIDefaultVoice は、OpenAI利用時のデフォルト音声です
const OpenAIDefaultVoice = "shimmer"

// DefaultGeminiConfig は、デフォルトのGemini設定を返します
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		AnalysisModel: "gemini-2.5-pro",
		ImageModel:    "imagen-4.0-generate-001",
		SpeechModel:   "gemini-2.5-flash-preview-tts",
		MaxTokens:     8192,
		Temperature:   1.0,
		TopP:          0.95,
	}
}

// DefaultOpenAIConfig は、デフォルトのOpenAI設定を返します
func DefaultOpenAIConfig() *OpenAIConfig {
	return &OpenAIConfig{
		AnalysisModel: "gpt-4o-mini",
		ImageModel:    "gpt-image-1",
		SpeechModel:   "gpt-4o-mini-tts",
		SpeechSpeed:   0.85,
	}
}

// DefaultDreamConfig は、デフォルトの夢設定を返します
func DefaultDreamConfig() *DreamConfig {
	return &DreamConfig{
		Provider:       ProviderGemini,
		VoiceName:      "Kore",
		AspectRatio:    "16:9",
		SampleRate:     24000,
		Channels:       1,
		RequestTimeout: 2 * time.Minute,
		SessionTTL:     time.Hour,
	}
}

// DefaultServerConfig は、デフォルトのHTTPサーバー設定を返します
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: "8080",
	}
}
