package models

// MediaKind identifies the type of media attached to a question.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// MediaTiming controls when question media is shown.
type MediaTiming string

const (
	MediaWithQuestion MediaTiming = "with-question"
	MediaWithAnswer   MediaTiming = "with-answer"
)

// Media is an optional attachment on a question.
type Media struct {
	Kind   MediaKind   `json:"kind"`
	Source string      `json:"source"`
	Timing MediaTiming `json:"timing"`
}

// Question is a single multiple-choice question. The catalog owns the
// canonical record; sessions reference questions by ID and never mutate
// anything except the marked flag, which is a cross-session annotation.
type Question struct {
	ID           string   `json:"id"`
	BankID       string   `json:"bank_id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
	Media        *Media   `json:"media,omitempty"`
	Marked       bool     `json:"marked"`
}

// QuestionBank is a named, ordered collection of questions.
type QuestionBank struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// QuestionFilter narrows catalog question listings.
type QuestionFilter struct {
	BankID     string
	MarkedOnly bool
	Limit      int
	Offset     int
}
