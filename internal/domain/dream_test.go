package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDreamAnalysis(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantField string
	}{
		{
			name:  "正常な解析結果",
			input: `{"title":"T","mood":"M","themes":["a","b","c"],"visual_prompt":"V","audio_prompt":"A"}`,
		},
		{
			name:  "前後の空白を許容",
			input: "\n  {\"title\":\"T\",\"mood\":\"M\",\"themes\":[\"a\"],\"visual_prompt\":\"V\",\"audio_prompt\":\"A\"}  \n",
		},
		{
			name:      "audio_promptが欠落",
			input:     `{"title":"T","mood":"M","themes":["a"],"visual_prompt":"V"}`,
			wantErr:   true,
			wantField: "audio_prompt",
		},
		{
			name:      "titleが欠落",
			input:     `{"mood":"M","themes":["a"],"visual_prompt":"V","audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "moodが欠落",
			input:     `{"title":"T","themes":["a"],"visual_prompt":"V","audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "mood",
		},
		{
			name:      "themesが欠落",
			input:     `{"title":"T","mood":"M","visual_prompt":"V","audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "themes",
		},
		{
			name:      "visual_promptが欠落",
			input:     `{"title":"T","mood":"M","themes":["a"],"audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "visual_prompt",
		},
		{
			name:      "themesが空",
			input:     `{"title":"T","mood":"M","themes":[],"visual_prompt":"V","audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "themes",
		},
		{
			name:      "titleが空白のみ",
			input:     `{"title":"  ","mood":"M","themes":["a"],"visual_prompt":"V","audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "空のテーマを含む",
			input:     `{"title":"T","mood":"M","themes":["a",""],"visual_prompt":"V","audio_prompt":"A"}`,
			wantErr:   true,
			wantField: "themes[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := ParseDreamAnalysis(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingField) {
					t.Fatalf("ErrMissingField が期待されましたが、%v が返されました", err)
				}
				if !strings.Contains(err.Error(), tt.wantField) {
					t.Errorf("エラーメッセージにフィールド名 %s が含まれていません: %v", tt.wantField, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if analysis.Title != "T" || analysis.VisualPrompt != "V" || analysis.AudioPrompt != "A" {
				t.Errorf("解析結果が正しくありません: %+v", analysis)
			}
		})
	}
}

func TestParseDreamAnalysis_InvalidJSON(t *testing.T) {
	_, err := ParseDreamAnalysis("not json")
	if err == nil {
		t.Fatal("不正なJSONでエラーが返されませんでした")
	}
	if errors.Is(err, ErrMissingField) {
		t.Error("JSONパースエラーが ErrMissingField として扱われています")
	}
}

func TestDreamAnalysis_HasTheme(t *testing.T) {
	analysis := testAnalysis()

	if !analysis.HasTheme("flying") {
		t.Error("flying がテーマとして判定されませんでした")
	}
	if analysis.HasTheme("swimming") {
		t.Error("swimming がテーマとして判定されました")
	}
}

func TestNewDreamscapeRecord(t *testing.T) {
	analysis := testAnalysis()
	audio := SampleBuffer{Format: L16Mono24K, Samples: []float32{0, 0.5}}

	record := NewDreamscapeRecord(analysis, "data:image/jpeg;base64,QUJD", audio, "I was flying")

	if record.ImageURL() != "data:image/jpeg;base64,QUJD" {
		t.Errorf("Expected ImageURL %s, got %s", "data:image/jpeg;base64,QUJD", record.ImageURL())
	}
	if record.OriginalText() != "I was flying" {
		t.Errorf("Expected OriginalText %s, got %s", "I was flying", record.OriginalText())
	}
	if len(record.Audio().Samples) != 2 {
		t.Errorf("Expected 2 samples, got %d", len(record.Audio().Samples))
	}

	// 元の解析結果を変更してもレコードは影響を受けない
	analysis.Themes[0] = "changed"
	if record.Analysis().Themes[0] != "flying" {
		t.Errorf("レコードのテーマが外部から変更されました: %v", record.Analysis().Themes)
	}

	// 取得したコピーを変更してもレコードは影響を受けない
	got := record.Analysis()
	got.Themes[1] = "changed"
	if record.Analysis().Themes[1] != "glass" {
		t.Errorf("レコードのテーマが取得結果から変更されました: %v", record.Analysis().Themes)
	}
}
