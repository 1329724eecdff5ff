package postgres

import (
	"encoding/json"

	"github.com/fastygo/tasktimer/domain"
)

// tags and daily_tasks are JSONB columns.
func marshalCollections(task *domain.Task) ([]byte, []byte, error) {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	dailyTasks := task.DailyTasks
	if dailyTasks == nil {
		dailyTasks = []domain.DailyTask{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, err
	}
	dailyJSON, err := json.Marshal(dailyTasks)
	if err != nil {
		return nil, nil, err
	}
	return tagsJSON, dailyJSON, nil
}

func unmarshalCollections(task *domain.Task, tags, dailyTasks []byte) error {
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &task.Tags); err != nil {
			return err
		}
	}
	task.DailyTasks = []domain.DailyTask{}
	if len(dailyTasks) > 0 {
		if err := json.Unmarshal(dailyTasks, &task.DailyTasks); err != nil {
			return err
		}
	}
	return nil
}
