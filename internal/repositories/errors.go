package repositories

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAssigned surfaces the assignments.task_id unique
	// violation: two concurrent assigns can both pass the existence
	// check, only one insert wins.
	ErrAlreadyAssigned = errors.New("task already assigned")
)
