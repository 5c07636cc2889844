package cmd

// bulkResult is the JSON reply of commands acting on many tasks.
type bulkResult struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type deletedResponse struct {
	Status string   `json:"status"`
	IDs    []string `json:"ids"`
}

type fileStatusResponse struct {
	Bound             bool   `json:"bound"`
	Path              string `json:"path,omitempty"`
	State             string `json:"state"`
	LastKnownModified int64  `json:"lastKnownModifiedMs,omitempty"`
	AutoSave          bool   `json:"autoSave"`
	AutoReload        bool   `json:"autoReload"`
	Tasks             int    `json:"tasks"`
}

type resultResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}
