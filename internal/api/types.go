package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Pipeline describes a catalog entry in a transport-friendly format.
type Pipeline struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Pipeline      string `json:"pipeline"`
	Category      string `json:"category"`
	CategoryColor string `json:"categoryColor"`
	IsFavorite    bool   `json:"isFavorite"`
	Active        bool   `json:"active"`
	CreatedTime   int64  `json:"createdTime"`
	LastUsedTime  int64  `json:"lastUsedTime"`
	CreatedAt     string `json:"createdAt,omitempty"`
	LastUsedAt    string `json:"lastUsedAt,omitempty"`
}

// PipelineListResponse wraps a collection of entries.
type PipelineListResponse struct {
	Items []Pipeline `json:"items"`
}

// PipelineResponse wraps a single entry.
type PipelineResponse struct {
	Item Pipeline `json:"item"`
}

// PipelineRequest creates or edits an entry. Absent fields are left
// unchanged on edit.
type PipelineRequest struct {
	Name     *string `json:"name"`
	Pipeline *string `json:"pipeline"`
}

// FavoriteRequest sets the favorite flag. An absent value means true.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

// ActiveResponse reports the running pipeline, if any.
type ActiveResponse struct {
	Active bool      `json:"active"`
	Item   *Pipeline `json:"item,omitempty"`
	ID     string    `json:"id,omitempty"`
}

// SnapshotImportResponse reports the result of a snapshot replace.
type SnapshotImportResponse struct {
	Count int        `json:"count"`
	Items []Pipeline `json:"items"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CheckResult is one readiness check.
type CheckResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Advisory bool   `json:"advisory,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// DoctorReport aggregates environment diagnostics.
type DoctorReport struct {
	ConfigPath   string             `json:"configPath"`
	ConfigFound  bool               `json:"configFound"`
	StoreBackend string             `json:"storeBackend"`
	Checks       []CheckResult      `json:"checks"`
	Entries      int                `json:"entries"`
	Backups      int                `json:"backups"`
	Dependencies []DependencyStatus `json:"dependencies"`
	Elements     []DependencyStatus `json:"elements,omitempty"`
}

// LogTailResponse carries log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
