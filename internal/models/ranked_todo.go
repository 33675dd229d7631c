package models

// RankedTodo is a todo item with its computed urgency score.
// Recomputed on every refresh cycle, never persisted.
type RankedTodo struct {
	Todo    TodoItem `json:"todo"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
