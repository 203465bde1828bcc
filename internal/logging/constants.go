package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldFormat     = "format"
	FieldInFormat   = "in_format"
	FieldOutFormat  = "out_format"
	FieldLine       = "line"
	FieldRow        = "row"
	FieldTag        = "tag"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldEncoding   = "encoding"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRunID      = "run_id"
	FieldStatement  = "statement_id"
)
