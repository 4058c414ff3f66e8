package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/config"

	"github.com/joho/godotenv"
)

// Config は、アプリケーション全体の設定を定義します
type Config struct {
	Discord config.DiscordConfig
	Gemini  config.GeminiConfig
	OpenAI  config.OpenAIConfig
	Dream   config.DreamConfig
	Server  config.ServerConfig
}

// LoadConfig は、環境変数から設定を読み込みます
// 必須項目の検証は用途に応じて Validate / ValidateDiscord で行います
func LoadConfig() (*Config, error) {
	// .envファイルを読み込み（ファイルが存在しない場合は無視）
	if err := godotenv.Load(); err != nil {
		// .envファイルが存在しない場合は警告のみ出力（エラーにはしない）
		fmt.Printf("警告: .envファイルの読み込みに失敗しました: %v\n", err)
	}

	return loadFromEnv(), nil
}

// loadFromEnv は、現在の環境変数から設定を組み立てます
func loadFromEnv() *Config {
	gemini := config.DefaultGeminiConfig()
	openAI := config.DefaultOpenAIConfig()
	dream := config.DefaultDreamConfig()
	server := config.DefaultServerConfig()

	provider := getEnvOrDefault("DREAM_PROVIDER", dream.Provider)
	defaultVoice := dream.VoiceName
	if provider == config.ProviderOpenAI {
		defaultVoice = config.OpenAIDefaultVoice
	}

	return &Config{
		Discord: config.DiscordConfig{
			BotToken: getEnvOrDefault("DISCORD_BOT_TOKEN", ""),
		},
		Gemini: config.GeminiConfig{
			APIKey:        getEnvOrDefault("GEMINI_API_KEY", ""),
			AnalysisModel: getEnvOrDefault("GEMINI_ANALYSIS_MODEL", gemini.AnalysisModel),
			ImageModel:    getEnvOrDefault("GEMINI_IMAGE_MODEL", gemini.ImageModel),
			SpeechModel:   getEnvOrDefault("GEMINI_SPEECH_MODEL", gemini.SpeechModel),
			MaxTokens:     int32(getEnvAsIntOrDefault("GEMINI_MAX_TOKENS", int(gemini.MaxTokens))),
			Temperature:   float32(getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", float64(gemini.Temperature))),
			TopP:          float32(getEnvAsFloatOrDefault("GEMINI_TOP_P", float64(gemini.TopP))),
		},
		OpenAI: config.OpenAIConfig{
			APIKey:        getEnvOrDefault("OPENAI_API_KEY", ""),
			BaseURL:       getEnvOrDefault("OPENAI_BASE_URL", ""),
			AnalysisModel: getEnvOrDefault("OPENAI_ANALYSIS_MODEL", openAI.AnalysisModel),
			ImageModel:    getEnvOrDefault("OPENAI_IMAGE_MODEL", openAI.ImageModel),
			SpeechModel:   getEnvOrDefault("OPENAI_SPEECH_MODEL", openAI.SpeechModel),
			SpeechSpeed:   getEnvAsFloatOrDefault("OPENAI_SPEECH_SPEED", openAI.SpeechSpeed),
		},
		Dream: config.DreamConfig{
			Provider:       provider,
			VoiceName:      getEnvOrDefault("DREAM_VOICE_NAME", defaultVoice),
			AspectRatio:    getEnvOrDefault("DREAM_ASPECT_RATIO", dream.AspectRatio),
			SampleRate:     getEnvAsIntOrDefault("DREAM_SAMPLE_RATE", dream.SampleRate),
			Channels:       getEnvAsIntOrDefault("DREAM_CHANNELS", dream.Channels),
			RequestTimeout: getEnvAsDurationOrDefault("REQUEST_TIMEOUT", dream.RequestTimeout),
			SessionTTL:     getEnvAsDurationOrDefault("SESSION_TTL", dream.SessionTTL),
		},
		Server: config.ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", server.Port),
		},
	}
}

// Validate は、夢の織り上げに必要な設定の妥当性を検証します
func (c *Config) Validate() error {
	switch c.Dream.Provider {
	case config.ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY が設定されていません")
		}
		if c.Gemini.MaxTokens <= 0 {
			return fmt.Errorf("GEMINI_MAX_TOKENS は正の整数である必要があります")
		}
	case config.ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY が設定されていません")
		}
		if c.OpenAI.SpeechSpeed < 0.25 || c.OpenAI.SpeechSpeed > 4.0 {
			return fmt.Errorf("OPENAI_SPEECH_SPEED は 0.25 から 4.0 の範囲である必要があります")
		}
	default:
		return fmt.Errorf("DREAM_PROVIDER は %s または %s である必要があります: %s", config.ProviderGemini, config.ProviderOpenAI, c.Dream.Provider)
	}

	if c.Dream.VoiceName == "" {
		return fmt.Errorf("DREAM_VOICE_NAME が設定されていません")
	}

	if _, err := domain.ParseAspectRatio(c.Dream.AspectRatio); err != nil {
		return fmt.Errorf("DREAM_ASPECT_RATIO が不正です: %w", err)
	}

	format := domain.AudioFormat{SampleRate: c.Dream.SampleRate, Channels: c.Dream.Channels}
	if err := format.Validate(); err != nil {
		return fmt.Errorf("DREAM_SAMPLE_RATE / DREAM_CHANNELS が不正です: %w", err)
	}

	if c.Dream.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT は0以上である必要があります")
	}

	if c.Dream.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL は0以上である必要があります")
	}

	return nil
}

// ValidateDiscord は、Discord Botの起動に必要な設定を検証します
func (c *Config) ValidateDiscord() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN が設定されていません")
	}
	return c.Validate()
}

// ValidateServer は、HTTPサーバーの起動に必要な設定を検証します
func (c *Config) ValidateServer() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("SERVER_PORT が不正です: %s", c.Server.Port)
	}
	return c.Validate()
}

// getEnvOrDefault は、環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は、環境変数を整数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault は、環境変数を浮動小数点数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は、環境変数を時間として取得し、存在しない場合はデフォルト値を返します
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
