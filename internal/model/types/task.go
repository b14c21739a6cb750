package types

// DrawUpdateTask asks the updater to apply newly ingested rounds.
type DrawUpdateTask struct {
	TaskID    string `json:"taskId"`
	Rounds    []int  `json:"rounds"`
	CreatedAt int64  `json:"createdAt"`
}
