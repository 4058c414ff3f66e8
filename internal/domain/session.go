package domain

import (
	"time"

	"github.com/google/uuid"
)

// ViewState は、夢セッションの表示状態を表します
type ViewState string

const (
	ViewStateInput   ViewState = "input"
	ViewStateLoading ViewState = "loading"
	ViewStateScape   ViewState = "scape"
	ViewStateError   ViewState = "error"
)

// LoadingMessages は、夢の織り上げ中に順番に表示する進捗メッセージです
var LoadingMessages = []string{
	"Weaving the threads of your subconscious...",
	"Translating emotions into pixels...",
	"Listening to the echoes of your dream...",
	"Consulting the digital oracle...",
	"Brewing a visual symphony...",
	"Gathering stardust and moonbeams...",
}

// LoadingMessageInterval は、進捗メッセージを切り替える間隔です
const LoadingMessageInterval = 2500 * time.Millisecond

// LoadingMessage は、経過ステップに応じた進捗メッセージを返します
func LoadingMessage(step int) string {
	if step < 0 {
		step = -step
	}
	return LoadingMessages[step%len(LoadingMessages)]
}

// Exploration は、テーマ探索で生成されたオーバーレイ画像を表します
type Exploration struct {
	Theme    string
	ImageURL string
}

// DreamSession は、1つの夢の織り上げから探索までの状態を保持するエンティティです
type DreamSession struct {
	ID           string
	State        ViewState
	Record       *DreamscapeRecord
	Exploration  *Exploration
	LoadingTheme string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	explorationSeq uint64
}

// NewDreamSession は、loading状態の新しいDreamSessionを作成します
func NewDreamSession() *DreamSession {
	now := time.Now()
	return &DreamSession{
		ID:        uuid.NewString(),
		State:     ViewStateLoading,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone はセッションのコピーを返します
// Record は不変のため共有します
func (s *DreamSession) Clone() *DreamSession {
	c := *s
	if s.Exploration != nil {
		e := *s.Exploration
		c.Exploration = &e
	}
	return &c
}

// Complete は、織り上げ結果を受け取りscape状態に遷移します
func (s *DreamSession) Complete(record *DreamscapeRecord) {
	s.State = ViewStateScape
	s.Record = record
	s.Exploration = nil
	s.LoadingTheme = ""
	s.ErrorMessage = ""
	s.touch()
}

// Fail は、織り上げの失敗を記録しerror状態に遷移します
func (s *DreamSession) Fail(message string) {
	s.State = ViewStateError
	s.Record = nil
	s.Exploration = nil
	s.LoadingTheme = ""
	s.ErrorMessage = message
	s.touch()
}

// BeginExploration は、テーマ探索の開始を記録し探索のシーケンス番号を返します
func (s *DreamSession) BeginExploration(theme string) (uint64, error) {
	if s.State != ViewStateScape || s.Record == nil {
		return 0, ErrInvalidState
	}
	if !s.Record.analysis.HasTheme(theme) {
		return 0, ErrUnknownTheme
	}

	s.explorationSeq++
	s.LoadingTheme = theme
	s.ErrorMessage = ""
	s.touch()
	return s.explorationSeq, nil
}

// CompleteExploration は、探索結果をオーバーレイとして設定します
// 探索開始後にセッションが変化している場合は ErrStaleExploration を返します
func (s *DreamSession) CompleteExploration(seq uint64, exploration Exploration) error {
	if s.State != ViewStateScape || s.explorationSeq != seq {
		return ErrStaleExploration
	}

	s.Exploration = &exploration
	s.LoadingTheme = ""
	s.touch()
	return nil
}

// FailExploration は、探索の失敗を記録します
// 記録済みの夢とscape状態はそのまま保持されます
func (s *DreamSession) FailExploration(seq uint64, message string) error {
	if s.State != ViewStateScape || s.explorationSeq != seq {
		return ErrStaleExploration
	}

	s.LoadingTheme = ""
	s.ErrorMessage = message
	s.touch()
	return nil
}

// ReturnToScape は、探索オーバーレイを閉じてscapeに戻ります
// 進行中の探索結果は以後破棄されます
func (s *DreamSession) ReturnToScape() error {
	if s.State != ViewStateScape {
		return ErrInvalidState
	}

	s.explorationSeq++
	s.Exploration = nil
	s.LoadingTheme = ""
	s.touch()
	return nil
}

// IsExploring は、テーマ探索が進行中かどうかを判定します
func (s *DreamSession) IsExploring() bool {
	return s.LoadingTheme != ""
}

func (s *DreamSession) touch() {
	s.UpdatedAt = time.Now()
}
