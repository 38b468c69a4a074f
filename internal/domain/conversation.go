package domain

import "time"

// Reference points an answer back at one retrieved chunk. It is derived at
// answer time and embedded in the stored ConversationTurn, never persisted
// on its own.
type Reference struct {
	Document       string  `json:"document" bson:"document"`
	Page           int     `json:"page,omitempty" bson:"page"`
	ChunkID        string  `json:"chunk_id" bson:"chunk_id"`
	ContentSnippet string  `json:"content_snippet" bson:"content_snippet"`
	RelevanceScore float64 `json:"relevance_score" bson:"relevance_score"`
}

// ConversationTurn is one question/answer exchange. Turns are immutable once
// stored; ordering is insertion order.
type ConversationTurn struct {
	Question   string      `json:"question" bson:"question"`
	Answer     string      `json:"answer" bson:"answer"`
	References []Reference `json:"references" bson:"references"`
	Timestamp  time.Time   `json:"timestamp" bson:"timestamp"`
}

// QuestionRequest is the request to ask a question.
type QuestionRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// AnswerResponse is the boundary DTO returned for a question.
type AnswerResponse struct {
	Answer         string      `json:"answer"`
	Reasoning      string      `json:"reasoning"`
	References     []Reference `json:"references"`
	Suggestions    []string    `json:"suggestions"`
	ConversationID string      `json:"conversation_id"`
}

// HistoryResponse is the response body for a history read.
type HistoryResponse struct {
	UserID              string             `json:"user_id"`
	ConversationHistory []ConversationTurn `json:"conversation_history"`
}
