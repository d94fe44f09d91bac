package content

// BlockKind identifies the type of a content block.
type BlockKind string

const (
	BlockParagraph BlockKind = "p"
	BlockBullets   BlockKind = "ul"
	BlockTip       BlockKind = "tip"
)

// ContentBlock is one typed block of instructional content.
// Paragraph and tip blocks carry Text; bullet blocks carry Items.
type ContentBlock struct {
	Kind  BlockKind `json:"type"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

// ModuleRef is a summary entry from the module listing.
type ModuleRef struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	QuizCount int    `json:"quiz_count"`
}

// Question is one multiple-choice question. Option order is significant:
// the option index is the answer encoding and must never be reordered.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ModuleDetail is the full module payload: ordered content blocks plus
// the quiz. The quiz arrives sanitized — answer keys stay on the server.
type ModuleDetail struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Content []ContentBlock `json:"content"`
	Quiz    []Question     `json:"quiz"`
}

// AnswerMap maps question id to the chosen option index.
// Absence of a key means the question is unanswered.
type AnswerMap map[string]int

// QuestionResult is the authoritative per-question verdict from grading.
type QuestionResult struct {
	QuestionID   string `json:"questionId"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	YourIndex    *int   `json:"yourIndex"`
	Explanation  string `json:"explanation"`
}

// GradeResult is the authoritative result of a batch grade call.
type GradeResult struct {
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}
