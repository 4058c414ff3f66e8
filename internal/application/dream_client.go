package application

import (
	"context"
)

// DreamClient は、夢の解析と画像・音声の生成を行うリモートサービスのクライアントのインターフェースです
type DreamClient interface {
	// AnalyzeDream は、解析プロンプトを送信し、厳密なスキーマに従ったJSONテキストを返します
	AnalyzeDream(ctx context.Context, prompt string) (string, error)

	// GenerateImage は、画像を1枚生成し、base64エンコードされた画像データを返します
	GenerateImage(ctx context.Context, request ImageRequest) (string, error)

	// GenerateSpeech は、音声を生成し、base64エンコードされたPCM16データを返します
	GenerateSpeech(ctx context.Context, request SpeechRequest) (string, error)
}

// ImageRequest は、画像生成リクエストを定義します
type ImageRequest struct {
	Prompt         string
	AspectRatio    string
	NumberOfImages int
	MIMEType       string
}

// SpeechRequest は、音声生成リクエストを定義します
type SpeechRequest struct {
	Text        string // ささやき声の指示を含む読み上げテキスト
	Phrase      string // 指示を含まない音声フレーズ
	Instruction string // 読み上げ方の指示
	Voice       string
}
