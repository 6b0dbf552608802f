package dashboard

// Stats are the counters shown on the dashboard.
type Stats struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	TotalDatasets  int `json:"totalDatasets"`
	TotalModels    int `json:"totalModels"`
	RunningTasks   int `json:"runningTasks"`
}
