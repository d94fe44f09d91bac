package content

import "context"

// Client defines the content API operations the learning flows consume.
// An interface so screens can be tested against a mock implementation.
type Client interface {
	ListModules(ctx context.Context) ([]ModuleRef, error)
	GetModule(ctx context.Context, id string) (*ModuleDetail, error)
	CheckAnswer(ctx context.Context, moduleID, questionID string, answerIndex int) (bool, error)
	GradeQuiz(ctx context.Context, moduleID string, answers AnswerMap) (*GradeResult, error)
}

// Ensure HTTPClient implements the interface.
var _ Client = (*HTTPClient)(nil)
