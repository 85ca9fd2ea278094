package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEntryID is the standardized key for catalog entry identifiers.
	FieldEntryID = "entry_id"
	// FieldEntryName is the standardized key for catalog entry display names.
	FieldEntryName = "entry_name"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldPath is the standardized key for filesystem paths.
	FieldPath = "path"
	// FieldState is the standardized key for engine states.
	FieldState = "state"
	// FieldCount is the standardized key for item counts.
	FieldCount = "count"
	// FieldCategory is the derived pipeline category.
	FieldCategory = "category"
)
