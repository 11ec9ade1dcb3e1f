package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one invocation of the runner.
	FieldRunID = "run_id"
	// FieldSourceFile is the source report currently being processed.
	FieldSourceFile = "source_file"
	// FieldPeriod is the output period identifier (ENTITY_MON_DD_YY).
	FieldPeriod = "period"
	// FieldLine is the 1-based line number of a record in its source file.
	FieldLine = "line"
	// FieldEventType is the machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to look at next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags entries that should stand out in structured logs.
	FieldAlert = "alert"
)
