package api

import (
	"time"

	"dreamweaver/internal/domain"
)

type audioView struct {
	Format          string  `json:"format"`
	SampleRate      int     `json:"sampleRate"`
	Channels        int     `json:"channels"`
	Frames          int     `json:"frames"`
	DurationSeconds float64 `json:"durationSeconds"`
	URL             string  `json:"url"`
}

type dreamView struct {
	Analysis     domain.DreamAnalysis `json:"analysis"`
	ImageURL     string               `json:"imageUrl"`
	ImagePath    string               `json:"imagePath"`
	Audio        audioView            `json:"audio"`
	OriginalText string               `json:"originalText"`
}

type explorationView struct {
	Theme    string `json:"theme"`
	ImageURL string `json:"imageUrl"`
}

// sessionView は、DreamSessionのJSON表現です
type sessionView struct {
	ID           string           `json:"id"`
	State        domain.ViewState `json:"state"`
	Dream        *dreamView       `json:"dream,omitempty"`
	Exploration  *explorationView `json:"exploration,omitempty"`
	LoadingTheme string           `json:"loadingTheme,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func newSessionView(session *domain.DreamSession) *sessionView {
	if session == nil {
		return nil
	}

	view := &sessionView{
		ID:           session.ID,
		State:        session.State,
		LoadingTheme: session.LoadingTheme,
		ErrorMessage: session.ErrorMessage,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}

	if record := session.Record; record != nil {
		samples := record.Audio()
		view.Dream = &dreamView{
			Analysis:  record.Analysis(),
			ImageURL:  record.ImageURL(),
			ImagePath: dreamPath(session.ID) + "/image",
			Audio: audioView{
				Format:          samples.Format.String(),
				SampleRate:      samples.Format.SampleRate,
				Channels:        samples.Format.Channels,
				Frames:          samples.Frames(),
				DurationSeconds: samples.Duration().Seconds(),
				URL:             dreamPath(session.ID) + "/audio",
			},
			OriginalText: record.OriginalText(),
		}
	}

	if session.Exploration != nil {
		view.Exploration = &explorationView{
			Theme:    session.Exploration.Theme,
			ImageURL: session.Exploration.ImageURL,
		}
	}

	return view
}

func dreamPath(id string) string {
	return "/api/v1/dreams/" + id
}
