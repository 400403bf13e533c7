package kql

// Template is a named example query offered as a starting point. Templates
// are static data with no lifecycle; they do not depend on a live schema.
type Template struct {
	Name        string `json:"name"`
	Template    string `json:"template"`
	Description string `json:"description"`
}

var queryTemplates = []Template{
	{
		Name:        "Recent exceptions",
		Template:    "exceptions\n| where timestamp > ago(24h)\n| take 100",
		Description: "The last 100 exceptions reported in the past day",
	},
	{
		Name:        "Request count by name",
		Template:    "requests\n| where timestamp > ago(1h)\n| summarize count() by name\n| sort by count_ desc",
		Description: "Which endpoints were hit the most in the last hour",
	},
	{
		Name:        "Slow requests",
		Template:    "requests\n| where duration > 1000\n| sort by duration desc\n| take 20",
		Description: "The 20 slowest requests above one second",
	},
	{
		Name:        "Failed requests over time",
		Template:    "requests\n| where success == false\n| summarize count() by bin(timestamp, 1h)",
		Description: "Hourly failure counts for spotting error spikes",
	},
	{
		Name:        "Exceptions by type",
		Template:    "exceptions\n| summarize count() by type\n| sort by count_ desc",
		Description: "Exception volume broken down by exception type",
	},
	{
		Name:        "Dependency latency percentiles",
		Template:    "dependencies\n| summarize percentiles(duration, 50, 95, 99) by target",
		Description: "Median and tail latency per downstream dependency",
	},
	{
		Name:        "Trace search",
		Template:    "traces\n| where timestamp > ago(1h)\n| where message contains \"error\"\n| take 50",
		Description: "Recent trace lines mentioning an error",
	},
	{
		Name:        "Daily active usage",
		Template:    "customEvents\n| where timestamp > ago(30d)\n| summarize dcount(user_Id) by bin(timestamp, 1d)",
		Description: "Distinct users per day over the last month",
	},
	{
		Name:        "Availability by location",
		Template:    "availabilityResults\n| where timestamp > ago(24h)\n| summarize avg(todouble(success)) * 100 by location",
		Description: "Availability test success rate per probe location",
	},
}

// QueryTemplates returns the full template catalog in declaration order.
// Every call returns a fresh copy, so callers may reorder or edit their
// slice without affecting later calls.
func QueryTemplates() []Template {
	out := make([]Template, len(queryTemplates))
	copy(out, queryTemplates)
	return out
}
