package entities

// LocalTask - задача, сохранённая в локальное хранилище, когда API задач
// недоступно. Хранится массивом под ключом aras_local_tasks.
type LocalTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"createdAt"`
}
