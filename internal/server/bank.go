package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

//go:embed data/modules.json
var embeddedBank []byte

// BankQuestion is a quiz question as authored: includes the answer key
// and explanation, which must never reach a client before grading.
type BankQuestion struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// BankModule is one authored module with its full quiz.
type BankModule struct {
	ID      string                 `json:"id"`
	Title   string                 `json:"title"`
	Summary string                 `json:"summary"`
	Content []content.ContentBlock `json:"content"`
	Quiz    []BankQuestion         `json:"quiz"`
}

// Bank is the full authored module bank, in serving order.
type Bank struct {
	Modules []BankModule `json:"modules"`
}

// LoadBank reads and validates a module bank. An empty path loads the
// embedded bank.
func LoadBank(path string) (*Bank, error) {
	raw := embeddedBank
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read module bank: %w", err)
		}
		raw = b
	}

	if err := validateBank(raw); err != nil {
		return nil, fmt.Errorf("validate module bank: %w", err)
	}

	var bank Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse module bank: %w", err)
	}

	for _, m := range bank.Modules {
		for _, q := range m.Quiz {
			if q.Answer < 0 || q.Answer >= len(q.Options) {
				return nil, fmt.Errorf("module %s question %s: answer index %d out of range", m.ID, q.ID, q.Answer)
			}
		}
	}
	return &bank, nil
}

// Module finds a module by id.
func (b *Bank) Module(id string) (*BankModule, bool) {
	for i := range b.Modules {
		if b.Modules[i].ID == id {
			return &b.Modules[i], true
		}
	}
	return nil, false
}

// Refs returns the listing entries in bank order.
func (b *Bank) Refs() []content.ModuleRef {
	refs := make([]content.ModuleRef, 0, len(b.Modules))
	for _, m := range b.Modules {
		refs = append(refs, content.ModuleRef{
			ID:        m.ID,
			Title:     m.Title,
			Summary:   m.Summary,
			QuizCount: len(m.Quiz),
		})
	}
	return refs
}

// Sanitized strips answer keys and explanations for client delivery.
// Option order is preserved: the index is the answer encoding.
func (m *BankModule) Sanitized() *content.ModuleDetail {
	quiz := make([]content.Question, 0, len(m.Quiz))
	for _, q := range m.Quiz {
		quiz = append(quiz, content.Question{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
		})
	}
	return &content.ModuleDetail{
		ID:      m.ID,
		Title:   m.Title,
		Content: m.Content,
		Quiz:    quiz,
	}
}

// Grade scores an answer map against the bank's key. Unanswered
// questions count as incorrect; results follow bank question order.
func (m *BankModule) Grade(answers content.AnswerMap) *content.GradeResult {
	res := &content.GradeResult{Total: len(m.Quiz)}
	for _, q := range m.Quiz {
		qr := content.QuestionResult{
			QuestionID:   q.ID,
			CorrectIndex: q.Answer,
			Explanation:  q.Explanation,
		}
		if idx, ok := answers[q.ID]; ok {
			v := idx
			qr.YourIndex = &v
			if idx == q.Answer {
				qr.Correct = true
				res.Score++
			}
		}
		res.Results = append(res.Results, qr)
	}
	return res
}
