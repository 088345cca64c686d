package core

// Options controls how CSV text is parsed and validated.
type Options struct {
	Delimiter      rune // Field separator (default ',')
	HasHeaders     bool // First line holds column names
	SkipEmptyLines bool // Drop lines that are blank after trimming
	TrimValues     bool // Strip surrounding whitespace from each field
	Strict         bool // Reject ragged rows and unterminated quotes instead of tolerating them
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{
		Delimiter:      ',',
		HasHeaders:     true,
		SkipEmptyLines: true,
		TrimValues:     true,
	}
}

// delimiter returns the configured delimiter, falling back to ','.
func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// SerializeOptions controls how a Dataset is written back to CSV.
type SerializeOptions struct {
	Delimiter      rune     // Field separator (default ',')
	IncludeHeaders bool     // Emit the header line first
	Fields         []string // Explicit column order; nil means every present key
}

// DefaultSerializeOptions returns comma-separated output with a header line.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{
		Delimiter:      ',',
		IncludeHeaders: true,
	}
}

func (o SerializeOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	ColumnNumber  ColumnType = "number"
	ColumnBoolean ColumnType = "boolean"
	ColumnString  ColumnType = "string"
	ColumnEmpty   ColumnType = "empty"
)

// ColumnAggregation holds aggregated values for a single numeric column.
type ColumnAggregation struct {
	Column string  `json:"column"`
	Count  int     `json:"count"` // Number of int/float cells
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Statistics is a descriptive summary of a Dataset.
type Statistics struct {
	TotalRows    int                           `json:"totalRows"`
	TotalColumns int                           `json:"totalColumns"`
	ColumnNames  []string                      `json:"columnNames"`
	ColumnTypes  map[string]ColumnType         `json:"columnTypes"`
	EmptyValues  int                           `json:"emptyValues"`
	Aggregations map[string]*ColumnAggregation `json:"aggregations,omitempty"`
}

// ValidationResult is the advisory outcome of a validation pass.
// Errors make the input invalid; warnings never do.
type ValidationResult struct {
	Valid    bool          `json:"isValid"`
	Errors   []string      `json:"errors"`
	Warnings []string      `json:"warnings"`
	Stats    *ContactStats `json:"stats,omitempty"`
}

// ContactStats counts contact fields seen by ValidateContacts.
type ContactStats struct {
	TotalRows     int `json:"totalRows"`
	ValidEmails   int `json:"validEmails"`
	InvalidEmails int `json:"invalidEmails"`
	ValidPhones   int `json:"validPhones"`
	InvalidPhones int `json:"invalidPhones"`
	TotalValid    int `json:"totalValid"`
	TotalInvalid  int `json:"totalInvalid"`
}

// Contact is a normalized contact extracted from a dataset row.
type Contact struct {
	RowID    int    `json:"rowId"`
	Email    string `json:"email,omitempty"`
	HasEmail bool   `json:"hasEmail"`
	Phone    string `json:"phone,omitempty"`
	HasPhone bool   `json:"hasPhone"`
	Name     string `json:"name"`
}
