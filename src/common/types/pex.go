package types

import (
	"strconv"
)

// Line is a raw line of a PEX file together with its 1-based line number.
type Line struct {
	Number int
	Text   string
}

type RunType string

const (
	RunOrigin      RunType = "Origin"
	RunDwell       RunType = "Dwell"
	RunMovement    RunType = "Movement"
	RunDestination RunType = "Destination"
)

// Template holds the fields that are constant for a whole train run.
type Template struct {
	Timetable        string `json:"timetable"`
	TSC              string `json:"tsc"`
	TrainHeadcode    string `json:"train_headcode"`
	OperatorCode     string `json:"operator_code"`
	OperatorName     string `json:"operator_name"`
	TrainClass       string `json:"train_class"`
	TrainSpeedLoad   string `json:"train_speed_load"`
	RunStartCode     string `json:"run_start_code"`
	RunEndCode       string `json:"run_end_code"`
	RunStartName     string `json:"run_start_name"`
	RunEndName       string `json:"run_end_name"`
	RunOverview      string `json:"run_overview"`
	RunStartTime     string `json:"run_start_time"`
	RunEndTime       string `json:"run_end_time"`
	OperatingDay     string `json:"operating_day"`
	TrainDescription string `json:"train_description"`
}

// Event is one output row. The embedded Template is copied by value into every event.
type Event struct {
	Template

	LineInFile           int      `json:"line_in_file"`
	RunTimeRange         string   `json:"run_time_range"`
	FromTime             string   `json:"from_time"`
	ToTime               string   `json:"to_time"`
	FromCode             string   `json:"from_code"`
	ToCode               string   `json:"to_code"`
	FromName             string   `json:"from_name"`
	ToName               string   `json:"to_name"`
	Route                string   `json:"route"`
	RunningLine          string   `json:"running_line"`
	Platform             string   `json:"platform"`
	RunType              RunType  `json:"run_type"`
	SectionalRunningTime *float64 `json:"sectional_running_time,omitempty"`
	Runtime              *float64 `json:"runtime,omitempty"`
	Dwell                *float64 `json:"dwell,omitempty"`
	MovementType         string   `json:"movement_type"`
	EngineeringAllowance *float64 `json:"engineering_allowance,omitempty"`
	PathingAllowance     *float64 `json:"pathing_allowance,omitempty"`
	PerformanceAllowance *float64 `json:"performance_allowance,omitempty"`
	AdjustmentAllowance  *float64 `json:"adjustment_allowance,omitempty"`
}

var Columns = []string{
	"Line in file", "Timetable", "TSC", "Train Headcode", "Operator (Code)", "Operator (Name)", "Train Class",
	"Train Speed/Load", "Run Start (Code)", "Run End (Code)", "Run Start (Name)", "Run End (Name)", "Run Overview",
	"Run Start (Time)", "Run End (Time)", "Run Time Range", "Operating Day", "From (Time)", "To (Time)", "From (Code)",
	"To (Code)", "From (Name)", "To (Name)", "Route", "Running Line", "Platform", "Run Type", "Sectional Running Time",
	"Runtime", "Dwell", "Movement Type", "Engineering Allowance", "Pathing Allowance", "Performance Allowance",
	"Adjustment Allowance", "Train Description",
}

// Values returns the event's cells in Columns order. Numeric cells are float64 or nil.
func (e Event) Values() []any {
	return []any{
		e.LineInFile, e.Timetable, e.TSC, e.TrainHeadcode, e.OperatorCode, e.OperatorName, e.TrainClass,
		e.TrainSpeedLoad, e.RunStartCode, e.RunEndCode, e.RunStartName, e.RunEndName, e.RunOverview,
		e.RunStartTime, e.RunEndTime, e.RunTimeRange, e.OperatingDay, e.FromTime, e.ToTime, e.FromCode,
		e.ToCode, e.FromName, e.ToName, e.Route, e.RunningLine, e.Platform, string(e.RunType), minutesValue(e.SectionalRunningTime),
		minutesValue(e.Runtime), minutesValue(e.Dwell), e.MovementType, minutesValue(e.EngineeringAllowance), minutesValue(e.PathingAllowance), minutesValue(e.PerformanceAllowance),
		minutesValue(e.AdjustmentAllowance), e.TrainDescription,
	}
}

// Row renders the event as strings in Columns order.
func (e Event) Row() []string {
	values := e.Values()
	row := make([]string, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case nil:
			row[i] = ""
		case string:
			row[i] = v
		case int:
			row[i] = strconv.Itoa(v)
		case float64:
			row[i] = FormatMinutes(v)
		}
	}
	return row
}

// FormatMinutes renders a minute value with the shortest exact decimal representation.
func FormatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func minutesValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func Minutes(v float64) *float64 {
	return &v
}
