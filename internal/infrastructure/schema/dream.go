package schema

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"dreamweaver/internal/domain"
)

// DreamAnalysisName は、解析結果スキーマの名前です
const DreamAnalysisName = "dream_analysis"

var dreamAnalysis = sync.OnceValues(func() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[domain.DreamAnalysis](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("解析結果スキーマの生成に失敗: %w", err)
	}
	for _, name := range s.Required {
		if prop, ok := s.Properties[name]; ok {
			requireNonNull(prop)
		}
	}
	return s, nil
})

// DreamAnalysis は、夢の解析結果のJSONスキーマを返します
// 5つのフィールドはすべて必須で、themes は文字列の配列です
// 返されるスキーマは共有されるため、呼び出し側で変更しないでください
func DreamAnalysis() (*jsonschema.Schema, error) {
	return dreamAnalysis()
}

// requireNonNull は、必須フィールドの型からnullを取り除きます
func requireNonNull(s *jsonschema.Schema) {
	if len(s.Types) == 0 {
		return
	}
	types := slices.DeleteFunc(slices.Clone(s.Types), func(t string) bool {
		return t == "null"
	})
	if len(types) == 1 {
		s.Type = types[0]
		s.Types = nil
		return
	}
	s.Types = types
}
