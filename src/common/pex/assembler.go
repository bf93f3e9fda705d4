package pex

import (
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

// Run is one header group and the movement records that follow it.
type Run struct {
	Header    types.Line
	Details   []types.Line
	Movements []types.Line
}

func isMovementPrefix(prefix string) bool {
	return prefix == PrefixTiming || prefix == PrefixMovement
}

// Partition scans the file for THD records and groups each with its TDT records
// and the TSP/TMV records that follow them. Records outside a group are ignored.
func Partition(lines []types.Line) []Run {
	var runs []Run

	for i := 0; i < len(lines); i++ {
		if Prefix(lines[i]) != PrefixHeader {
			continue
		}

		run := Run{Header: lines[i]}
		j := i + 1
		for j < len(lines) && Prefix(lines[j]) == PrefixDetail {
			run.Details = append(run.Details, lines[j])
			j++
		}
		for j < len(lines) && isMovementPrefix(Prefix(lines[j])) {
			run.Movements = append(run.Movements, lines[j])
			j++
		}

		runs = append(runs, run)
		i = j - 1
	}

	return runs
}

// BuildTemplate fills the fields that stay constant across the run.
func BuildTemplate(timetable string, run Run, res Resolver) (types.Template, error) {
	thd, err := ParseTHD(run.Header)
	if err != nil {
		return types.Template{}, err
	}
	if thd.Headcode == "" {
		return types.Template{}, malformed(run.Header, PrefixHeader, "empty headcode")
	}

	details := make([]TDT, 0, len(run.Details))
	for _, line := range run.Details {
		tdt, err := ParseTDT(line)
		if err != nil {
			return types.Template{}, err
		}
		details = append(details, tdt)
	}

	tpl := types.Template{
		Timetable:     timetable,
		OperatorCode:  thd.OperatorCode,
		OperatorName:  res.OperatorName(thd.OperatorCode),
		TrainHeadcode: thd.Headcode,
		TrainClass:    thd.Headcode[:1],
		RunStartCode:  thd.StartCode,
		RunStartTime:  thd.StartTime,
		RunEndCode:    thd.EndCode,
		RunEndTime:    thd.EndTime,
		RunStartName:  res.StationName(thd.StartCode),
		RunEndName:    res.StationName(thd.EndCode),
	}
	tpl.RunOverview = tpl.RunStartName + " to " + tpl.RunEndName
	tpl.TrainDescription = tpl.TrainHeadcode + " - " +
		tpl.RunStartName + " (" + tpl.RunStartTime + ") to " +
		tpl.RunEndName + " (" + tpl.RunEndTime + ") "

	if mode, ok := modeDetail(details); ok {
		tpl.TSC = mode.TSC
		tpl.TrainSpeedLoad = mode.Load + "/" + mode.Speed
	}

	return tpl, nil
}

// modeDetail returns the most frequent (TSC, speed, load) triple. Ties go to the
// triple that was seen first.
func modeDetail(details []TDT) (TDT, bool) {
	if len(details) == 0 {
		return TDT{}, false
	}

	counts := make(map[TDT]int, len(details))
	var order []TDT
	for _, d := range details {
		if counts[d] == 0 {
			order = append(order, d)
		}
		counts[d]++
	}

	best := order[0]
	for _, d := range order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best, true
}
