package domain

import (
	"errors"
	"fmt"
)

// ドメイン固有のエラー型を定義
var (
	// ErrEmptyDreamText は、夢の内容が空の場合のエラーです
	ErrEmptyDreamText = errors.New("夢の内容が空です")

	// ErrMissingField は、解析結果に必須フィールドが含まれていない場合のエラーです
	ErrMissingField = errors.New("必須フィールドがありません")

	// ErrNoImageData は、画像生成の応答に画像データが含まれていない場合のエラーです
	ErrNoImageData = errors.New("画像データが含まれていません")

	// ErrNoAudioData は、音声生成の応答に音声データが含まれていない場合のエラーです
	ErrNoAudioData = errors.New("音声データが含まれていません")

	// ErrMalformedPayload は、PCMペイロードの長さがサンプル境界に揃っていない場合のエラーです
	ErrMalformedPayload = errors.New("PCMペイロードの形式が不正です")

	// ErrSessionNotFound は、セッションが存在しない場合のエラーです
	ErrSessionNotFound = errors.New("セッションが見つかりません")

	// ErrInvalidState は、現在のセッション状態では操作できない場合のエラーです
	ErrInvalidState = errors.New("現在の状態ではこの操作を実行できません")

	// ErrUnknownTheme は、解析結果に含まれないテーマが指定された場合のエラーです
	ErrUnknownTheme = errors.New("解析結果に含まれないテーマです")

	// ErrStaleExploration は、完了した探索がすでに古くなっている場合のエラーです
	ErrStaleExploration = errors.New("探索結果は破棄されました")
)

// Stage は、パイプラインのどの段階で失敗したかを表します
type Stage string

const (
	StageAnalysis Stage = "analysis"
	StageImage    Stage = "image"
	StageAudio    Stage = "audio"
)

// stageLabels は、各段階の表示名です
var stageLabels = map[Stage]string{
	StageAnalysis: "夢の解析",
	StageImage:    "画像生成",
	StageAudio:    "音声生成",
}

// Label は段階の日本語名を返します
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// StageError は、パイプラインの段階を特定できるエラーです
type StageError struct {
	Stage Stage
	Err   error
}

// 段階ごとの比較用エラー（errors.Is で使用）
var (
	ErrAnalysis        = &StageError{Stage: StageAnalysis}
	ErrImageGeneration = &StageError{Stage: StageImage}
	ErrAudioGeneration = &StageError{Stage: StageAudio}
)

// NewStageError は、指定された段階のエラーを作成します
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%sに失敗しました", e.Stage.Label())
	}
	return fmt.Sprintf("%sに失敗: %v", e.Stage.Label(), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is は、同じ段階の比較用エラーと一致するかを判定します
func (e *StageError) Is(target error) bool {
	t, ok := target.(*StageError)
	if !ok {
		return false
	}
	return t.Err == nil && t.Stage == e.Stage
}

// StageOf は、エラーチェーンからパイプラインの段階を取り出します
func StageOf(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}

// DecodeError は、音声ペイロードのデコードに失敗した場合のエラーです
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("音声のデコードに失敗: %s", e.Reason)
	}
	return fmt.Sprintf("音声のデコードに失敗: %s: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
