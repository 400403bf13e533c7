// This file contains the fixed KQL catalogs: core query operators, scalar
// and aggregation functions, additional keywords, and time-range literals.
// Entries keep declaration order; providers must not re-sort them.
package kql

// FunctionCategory classifies KQL functions by their purpose.
type FunctionCategory string

// FunctionCategory constants for KQL function classification.
const (
	CategoryAggregate  FunctionCategory = "aggregate"
	CategoryString     FunctionCategory = "string"
	CategoryDateTime   FunctionCategory = "datetime"
	CategoryNumeric    FunctionCategory = "numeric"
	CategoryConversion FunctionCategory = "conversion"
	CategoryDynamic    FunctionCategory = "dynamic"
	CategoryCondition  FunctionCategory = "condition"
)

// OperatorInfo describes a tabular query operator that can follow a pipe.
type OperatorInfo struct {
	Name        string // Operator name (e.g., "where")
	Description string // Brief description
}

// KeywordInfo describes a non-operator keyword usable inside a stage.
type KeywordInfo struct {
	Name        string // Keyword text (e.g., "by")
	Description string // Brief description
}

// FunctionInfo describes a KQL function for completion and hover.
type FunctionInfo struct {
	Name        string           // Function name (e.g., "substring")
	Signature   string           // Full signature (e.g., "substring(source, start, length) -> string")
	Description string           // Brief description
	Category    FunctionCategory // Function category
	IsAggregate bool             // True if only valid after summarize
	Snippet     string           // Insertion snippet with $1 cursor marker
}

// TimeRangeInfo describes a ready-made time filter literal.
type TimeRangeInfo struct {
	Text        string // Literal text inserted verbatim (e.g., "ago(1h)")
	Description string // Brief description
}

// CoreOperators is the fixed set of operators suggested after a bare pipe.
var CoreOperators = []OperatorInfo{
	{Name: "where", Description: "Filter rows by a boolean predicate"},
	{Name: "project", Description: "Select and rename columns to keep"},
	{Name: "extend", Description: "Append computed columns"},
	{Name: "summarize", Description: "Aggregate rows, optionally grouped with by"},
	{Name: "take", Description: "Return up to the given number of rows"},
	{Name: "sort", Description: "Order rows by one or more expressions"},
	{Name: "join", Description: "Merge rows with another table on matching keys"},
	{Name: "union", Description: "Concatenate rows of two or more tables"},
}

// Keywords are additional keywords offered by prefix matching outside the
// pipe position. The core operators take part in prefix matching as well.
var Keywords = []KeywordInfo{
	{Name: "by", Description: "Group the preceding aggregation by expressions"},
	{Name: "on", Description: "Join key clause"},
	{Name: "asc", Description: "Ascending sort order"},
	{Name: "desc", Description: "Descending sort order"},
	{Name: "and", Description: "Logical conjunction"},
	{Name: "or", Description: "Logical disjunction"},
	{Name: "not", Description: "Logical negation"},
	{Name: "in", Description: "Membership test against a list of values"},
	{Name: "between", Description: "Range test: expr between (low .. high)"},
	{Name: "contains", Description: "Case-insensitive substring match"},
	{Name: "has", Description: "Whole-term match, faster than contains"},
	{Name: "startswith", Description: "Case-insensitive prefix match"},
	{Name: "endswith", Description: "Case-insensitive suffix match"},
	{Name: "matches", Description: "Regular expression match: matches regex"},
	{Name: "kind", Description: "Variant selector for join and union"},
	{Name: "true", Description: "Boolean literal"},
	{Name: "false", Description: "Boolean literal"},
}

// Functions contains the scalar KQL functions known to the engine.
var Functions = []FunctionInfo{
	// ==================== STRING FUNCTIONS ====================
	{Name: "substring", Signature: "substring(source, start [, length]) -> string", Description: "Extract a substring from start", Category: CategoryString, Snippet: "substring($1)"},
	{Name: "strlen", Signature: "strlen(source) -> long", Description: "Length of a string in characters", Category: CategoryString, Snippet: "strlen($1)"},
	{Name: "strcat", Signature: "strcat(arg1, arg2, ...) -> string", Description: "Concatenate string arguments", Category: CategoryString, Snippet: "strcat($1)"},
	{Name: "split", Signature: "split(source, delimiter) -> dynamic", Description: "Split a string into an array of substrings", Category: CategoryString, Snippet: "split($1)"},
	{Name: "replace_string", Signature: "replace_string(text, lookup, rewrite) -> string", Description: "Replace all occurrences of lookup", Category: CategoryString, Snippet: "replace_string($1)"},
	{Name: "trim", Signature: "trim(regex, source) -> string", Description: "Trim leading and trailing matches", Category: CategoryString, Snippet: "trim($1)"},
	{Name: "tolower", Signature: "tolower(source) -> string", Description: "Convert to lowercase", Category: CategoryString, Snippet: "tolower($1)"},
	{Name: "toupper", Signature: "toupper(source) -> string", Description: "Convert to uppercase", Category: CategoryString, Snippet: "toupper($1)"},
	{Name: "extract", Signature: "extract(regex, captureGroup, source) -> string", Description: "Extract a regex capture group", Category: CategoryString, Snippet: "extract($1)"},
	{Name: "indexof", Signature: "indexof(source, lookup) -> long", Description: "Zero-based index of the first occurrence, -1 if absent", Category: CategoryString, Snippet: "indexof($1)"},

	// ==================== DATETIME FUNCTIONS ====================
	{Name: "ago", Signature: "ago(timespan) -> datetime", Description: "Current UTC time minus the given timespan", Category: CategoryDateTime, Snippet: "ago($1)"},
	{Name: "now", Signature: "now() -> datetime", Description: "Current UTC time", Category: CategoryDateTime, Snippet: "now()"},
	{Name: "datetime", Signature: "datetime(literal) -> datetime", Description: "Datetime literal constructor", Category: CategoryDateTime, Snippet: "datetime($1)"},
	{Name: "bin", Signature: "bin(value, roundTo) -> same", Description: "Round values down to a bin size, commonly for time bucketing", Category: CategoryDateTime, Snippet: "bin($1)"},
	{Name: "startofday", Signature: "startofday(date) -> datetime", Description: "Start of the day containing the date", Category: CategoryDateTime, Snippet: "startofday($1)"},
	{Name: "endofday", Signature: "endofday(date) -> datetime", Description: "End of the day containing the date", Category: CategoryDateTime, Snippet: "endofday($1)"},
	{Name: "startofweek", Signature: "startofweek(date) -> datetime", Description: "Start of the week containing the date", Category: CategoryDateTime, Snippet: "startofweek($1)"},
	{Name: "startofmonth", Signature: "startofmonth(date) -> datetime", Description: "Start of the month containing the date", Category: CategoryDateTime, Snippet: "startofmonth($1)"},
	{Name: "datetime_diff", Signature: "datetime_diff(part, datetime1, datetime2) -> long", Description: "Signed difference between two datetimes", Category: CategoryDateTime, Snippet: "datetime_diff($1)"},
	{Name: "format_datetime", Signature: "format_datetime(date, format) -> string", Description: "Format a datetime with the given pattern", Category: CategoryDateTime, Snippet: "format_datetime($1)"},

	// ==================== NUMERIC FUNCTIONS ====================
	{Name: "abs", Signature: "abs(x) -> same", Description: "Absolute value", Category: CategoryNumeric, Snippet: "abs($1)"},
	{Name: "round", Signature: "round(x [, precision]) -> real", Description: "Round to the given precision", Category: CategoryNumeric, Snippet: "round($1)"},
	{Name: "floor", Signature: "floor(x, roundTo) -> same", Description: "Round down to a multiple of roundTo", Category: CategoryNumeric, Snippet: "floor($1)"},
	{Name: "ceiling", Signature: "ceiling(x) -> same", Description: "Round up to the nearest integer", Category: CategoryNumeric, Snippet: "ceiling($1)"},
	{Name: "log", Signature: "log(x) -> real", Description: "Natural logarithm", Category: CategoryNumeric, Snippet: "log($1)"},
	{Name: "exp", Signature: "exp(x) -> real", Description: "e raised to power x", Category: CategoryNumeric, Snippet: "exp($1)"},
	{Name: "range", Signature: "range(start, stop [, step]) -> dynamic", Description: "Array of equally spaced values", Category: CategoryNumeric, Snippet: "range($1)"},

	// ==================== CONVERSION FUNCTIONS ====================
	{Name: "tostring", Signature: "tostring(value) -> string", Description: "Convert to string", Category: CategoryConversion, Snippet: "tostring($1)"},
	{Name: "toint", Signature: "toint(value) -> int", Description: "Convert to int, null on failure", Category: CategoryConversion, Snippet: "toint($1)"},
	{Name: "tolong", Signature: "tolong(value) -> long", Description: "Convert to long, null on failure", Category: CategoryConversion, Snippet: "tolong($1)"},
	{Name: "todouble", Signature: "todouble(value) -> real", Description: "Convert to real, null on failure", Category: CategoryConversion, Snippet: "todouble($1)"},
	{Name: "todatetime", Signature: "todatetime(value) -> datetime", Description: "Convert to datetime, null on failure", Category: CategoryConversion, Snippet: "todatetime($1)"},
	{Name: "totimespan", Signature: "totimespan(value) -> timespan", Description: "Convert to timespan, null on failure", Category: CategoryConversion, Snippet: "totimespan($1)"},
	{Name: "tobool", Signature: "tobool(value) -> bool", Description: "Convert to bool, null on failure", Category: CategoryConversion, Snippet: "tobool($1)"},

	// ==================== DYNAMIC FUNCTIONS ====================
	{Name: "parse_json", Signature: "parse_json(source) -> dynamic", Description: "Parse a JSON string into a dynamic value", Category: CategoryDynamic, Snippet: "parse_json($1)"},
	{Name: "array_length", Signature: "array_length(array) -> long", Description: "Number of elements in a dynamic array", Category: CategoryDynamic, Snippet: "array_length($1)"},
	{Name: "bag_keys", Signature: "bag_keys(bag) -> dynamic", Description: "Top-level keys of a property bag", Category: CategoryDynamic, Snippet: "bag_keys($1)"},

	// ==================== CONDITION FUNCTIONS ====================
	{Name: "iff", Signature: "iff(predicate, ifTrue, ifFalse) -> same", Description: "Ternary conditional", Category: CategoryCondition, Snippet: "iff($1)"},
	{Name: "case", Signature: "case(pred1, then1, ..., else) -> same", Description: "First matching predicate's value", Category: CategoryCondition, Snippet: "case($1)"},
	{Name: "coalesce", Signature: "coalesce(arg1, arg2, ...) -> same", Description: "First non-null argument", Category: CategoryCondition, Snippet: "coalesce($1)"},
	{Name: "isempty", Signature: "isempty(value) -> bool", Description: "True for empty string or null", Category: CategoryCondition, Snippet: "isempty($1)"},
	{Name: "isnotempty", Signature: "isnotempty(value) -> bool", Description: "True for non-empty, non-null value", Category: CategoryCondition, Snippet: "isnotempty($1)"},
	{Name: "isnull", Signature: "isnull(value) -> bool", Description: "True if the value is null", Category: CategoryCondition, Snippet: "isnull($1)"},
}

// AggregationFunctions contains the functions valid after summarize.
var AggregationFunctions = []FunctionInfo{
	{Name: "count", Signature: "count() -> long", Description: "Number of rows in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "count()"},
	{Name: "countif", Signature: "countif(predicate) -> long", Description: "Number of rows for which the predicate is true", Category: CategoryAggregate, IsAggregate: true, Snippet: "countif($1)"},
	{Name: "dcount", Signature: "dcount(expr) -> long", Description: "Estimated number of distinct values", Category: CategoryAggregate, IsAggregate: true, Snippet: "dcount($1)"},
	{Name: "sum", Signature: "sum(expr) -> numeric", Description: "Sum of all values in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "sum($1)"},
	{Name: "sumif", Signature: "sumif(expr, predicate) -> numeric", Description: "Sum of values for which the predicate is true", Category: CategoryAggregate, IsAggregate: true, Snippet: "sumif($1)"},
	{Name: "avg", Signature: "avg(expr) -> real", Description: "Average of all values in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "avg($1)"},
	{Name: "min", Signature: "min(expr) -> same", Description: "Minimum value in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "min($1)"},
	{Name: "max", Signature: "max(expr) -> same", Description: "Maximum value in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "max($1)"},
	{Name: "percentile", Signature: "percentile(expr, percentile) -> same", Description: "Estimated percentile of the values", Category: CategoryAggregate, IsAggregate: true, Snippet: "percentile($1)"},
	{Name: "percentiles", Signature: "percentiles(expr, p1, p2, ...) -> same", Description: "Several estimated percentiles at once", Category: CategoryAggregate, IsAggregate: true, Snippet: "percentiles($1)"},
	{Name: "stdev", Signature: "stdev(expr) -> real", Description: "Sample standard deviation", Category: CategoryAggregate, IsAggregate: true, Snippet: "stdev($1)"},
	{Name: "variance", Signature: "variance(expr) -> real", Description: "Sample variance", Category: CategoryAggregate, IsAggregate: true, Snippet: "variance($1)"},
	{Name: "make_list", Signature: "make_list(expr) -> dynamic", Description: "Array of all values in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "make_list($1)"},
	{Name: "make_set", Signature: "make_set(expr) -> dynamic", Description: "Array of distinct values in the group", Category: CategoryAggregate, IsAggregate: true, Snippet: "make_set($1)"},
	{Name: "arg_max", Signature: "arg_max(maximized, returned) -> same", Description: "Row values where the maximized expression peaks", Category: CategoryAggregate, IsAggregate: true, Snippet: "arg_max($1)"},
	{Name: "arg_min", Signature: "arg_min(minimized, returned) -> same", Description: "Row values where the minimized expression bottoms", Category: CategoryAggregate, IsAggregate: true, Snippet: "arg_min($1)"},
}

// TimeRanges contains the ready-made time filter literals offered when the
// current word mentions ago or between.
var TimeRanges = []TimeRangeInfo{
	{Text: "ago(5m)", Description: "Last 5 minutes"},
	{Text: "ago(15m)", Description: "Last 15 minutes"},
	{Text: "ago(30m)", Description: "Last 30 minutes"},
	{Text: "ago(1h)", Description: "Last hour"},
	{Text: "ago(6h)", Description: "Last 6 hours"},
	{Text: "ago(12h)", Description: "Last 12 hours"},
	{Text: "ago(24h)", Description: "Last 24 hours"},
	{Text: "ago(3d)", Description: "Last 3 days"},
	{Text: "ago(7d)", Description: "Last 7 days"},
	{Text: "ago(30d)", Description: "Last 30 days"},
	{Text: "between (ago(1h) .. now())", Description: "Range covering the last hour"},
	{Text: "between (ago(24h) .. now())", Description: "Range covering the last 24 hours"},
	{Text: "between (startofday(now()) .. now())", Description: "Range covering today so far"},
	{Text: "between (startofday(ago(1d)) .. startofday(now()))", Description: "Range covering yesterday"},
}

// LookupFunction returns the scalar or aggregation function with the given
// name, matched case-insensitively, or nil if unknown.
func LookupFunction(name string) *FunctionInfo {
	upper := toUpperASCII(name)
	for i := range Functions {
		if toUpperASCII(Functions[i].Name) == upper {
			return &Functions[i]
		}
	}
	for i := range AggregationFunctions {
		if toUpperASCII(AggregationFunctions[i].Name) == upper {
			return &AggregationFunctions[i]
		}
	}
	return nil
}

// LookupOperator returns the core operator with the given name, matched
// case-insensitively, or nil if unknown.
func LookupOperator(name string) *OperatorInfo {
	upper := toUpperASCII(name)
	for i := range CoreOperators {
		if toUpperASCII(CoreOperators[i].Name) == upper {
			return &CoreOperators[i]
		}
	}
	return nil
}

// SearchFunctions returns scalar and aggregation functions matching a prefix
// (case-insensitive), scalar catalog first, both in declaration order.
func SearchFunctions(prefix string) []FunctionInfo {
	var result []FunctionInfo
	for _, fn := range Functions {
		if hasPrefixFold(fn.Name, prefix) {
			result = append(result, fn)
		}
	}
	for _, fn := range AggregationFunctions {
		if hasPrefixFold(fn.Name, prefix) {
			result = append(result, fn)
		}
	}
	return result
}

// hasPrefixFold reports whether s starts with prefix, ignoring ASCII case.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return toUpperASCII(s[:len(prefix)]) == toUpperASCII(prefix)
}

// toUpperASCII converts ASCII letters to uppercase.
func toUpperASCII(s string) string {
	result := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		result[i] = c
	}
	return string(result)
}
