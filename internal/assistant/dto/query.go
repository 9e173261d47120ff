package dto

import (
	"time"

	"finsight/internal/entity"
)

// QueryRequest is the payload for a free-text financial question.
type QueryRequest struct {
	Query string `json:"query"`
}

// Card is a renderable section of a markdown answer.
type Card struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// QueryResponse is the full answer for a free-text question: the markdown
// content, its citation list, and the content pre-split into cards.
type QueryResponse struct {
	Symbol     string          `json:"symbol,omitempty"`
	Content    string          `json:"content"`
	Sources    []entity.Source `json:"sources"`
	Cards      []Card          `json:"cards"`
	Provider   string          `json:"provider"`
	AnsweredAt time.Time       `json:"answered_at"`
}
