package transport

// TaskRequest is the body of POST /api/v1/tasks and PUT /api/v1/tasks/{id}.
type TaskRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	DailyTime   int      `json:"daily_time"`
}
