package models

import "fmt"

// EvaluationScore rates a teach-back conversation; every field is on a
// 0 to 10 scale.
type EvaluationScore struct {
	KnowledgeAccuracy  float64 `json:"knowledge_accuracy"`
	ExplanationQuality float64 `json:"explanation_quality"`
	Intuitiveness      float64 `json:"intuitiveness"`
	OverallScore       float64 `json:"overall_score"`
}

const (
	MinScore = 0
	MaxScore = 10
)

// Validate rejects scores outside the 0..10 range.
func (e EvaluationScore) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"knowledge_accuracy", e.KnowledgeAccuracy},
		{"explanation_quality", e.ExplanationQuality},
		{"intuitiveness", e.Intuitiveness},
		{"overall_score", e.OverallScore},
	}
	for _, f := range fields {
		if f.value < MinScore || f.value > MaxScore {
			return fmt.Errorf("%s out of range: %v", f.name, f.value)
		}
	}
	return nil
}

// ConversationTurn is one entry of the conversation sent for evaluation.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EvaluationRole maps a transcript sender to the role name the evaluator
// expects.
func EvaluationRole(s Sender) string {
	if s == SenderAI {
		return "assistant"
	}
	return "user"
}
