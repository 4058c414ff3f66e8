package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestStageError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"解析段階", NewStageError(StageAnalysis, ErrMissingField), ErrAnalysis, true},
		{"画像段階", NewStageError(StageImage, ErrNoImageData), ErrImageGeneration, true},
		{"音声段階", NewStageError(StageAudio, ErrNoAudioData), ErrAudioGeneration, true},
		{"段階の不一致", NewStageError(StageImage, ErrNoImageData), ErrAudioGeneration, false},
		{"原因の伝播", NewStageError(StageAnalysis, ErrMissingField), ErrMissingField, true},
		{"ラップ後も判定可能", fmt.Errorf("外側: %w", NewStageError(StageAudio, context.Canceled)), ErrAudioGeneration, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is(%v, %v) = %v, 期待値 %v", tt.err, tt.target, got, tt.expected)
			}
		})
	}
}

func TestStageOf(t *testing.T) {
	stage, ok := StageOf(fmt.Errorf("wrap: %w", NewStageError(StageImage, errors.New("boom"))))
	if !ok || stage != StageImage {
		t.Errorf("期待される段階: %s, 実際の段階: %s (ok=%v)", StageImage, stage, ok)
	}

	if _, ok := StageOf(errors.New("plain")); ok {
		t.Error("段階を持たないエラーで段階が取得されました")
	}
}

func TestStageError_DecodeErrorReachable(t *testing.T) {
	err := NewStageError(StageAudio, &DecodeError{Reason: "test", Err: ErrMalformedPayload})

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatal("StageError から DecodeError を取り出せません")
	}
	if !errors.Is(err, ErrMalformedPayload) {
		t.Error("StageError から ErrMalformedPayload を判定できません")
	}
}

func TestStageError_Error(t *testing.T) {
	err := NewStageError(StageAudio, errors.New("boom"))
	if err.Error() != "音声生成に失敗: boom" {
		t.Errorf("エラーメッセージが正しくありません: %s", err.Error())
	}
	if ErrAnalysis.Error() != "夢の解析に失敗しました" {
		t.Errorf("エラーメッセージが正しくありません: %s", ErrAnalysis.Error())
	}
}
