package todo

import "time"

type Todo struct {
	ID      string    `json:"id" db:"id"`
	Date    time.Time `json:"date" db:"date"`
	Content string    `json:"content" db:"content"`
	Done    bool      `json:"done" db:"done"`
}

// GetContent позволяет фильтровать любые структуры с текстом задачи.
func (t Todo) GetContent() string {
	return t.Content
}
