package dataprocessing

// Source columns of a malfunction export. Header names are case-sensitive.
const (
	ColumnLocation           = "Location"
	ColumnDescription        = "Description"
	ColumnFunctionalLocation = "Functional Location"
	ColumnMalfunctionStart   = "Malfunction Start"
	ColumnMalfunctionEnd     = "Malfunction End"
)

// Derived columns added by the transformer.
const (
	ColumnSystem              = "System"
	ColumnWeek                = "Week"
	ColumnProblem             = "Problem"
	ColumnType                = "Type"
	ColumnSubsystemFunctional = "Sub-system - Functional location"
	ColumnSubsystemRevised    = "Sub-system - Revised"
	ColumnRootCause           = "Root cause"
	ColumnCorrectiveAction    = "Corrective action"
	ColumnAdditionalAction    = "Additional Description of Action"
)

// RequiredColumns lists the columns every input table must carry.
var RequiredColumns = []string{
	ColumnLocation,
	ColumnDescription,
	ColumnFunctionalLocation,
	ColumnMalfunctionStart,
	ColumnMalfunctionEnd,
}
