package pex

import (
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

const (
	movementStop = "Stop"
	movementPass = "Pass"
)

func route(from, to string) string {
	if from == "" {
		return to
	}
	return from + " to " + to
}

func newEvent(tpl types.Template, line types.Line, runType types.RunType) types.Event {
	return types.Event{Template: tpl, LineInFile: line.Number, RunType: runType}
}

// DeriveEvents walks one run's TSP/TMV records and emits an event per origin,
// non-zero dwell, movement and destination.
func DeriveEvents(tpl types.Template, movements []types.Line, res Resolver) ([]types.Event, error) {
	n := len(movements)
	if n == 0 {
		return nil, &RunStructureError{Reason: "has no movement records"}
	}
	if Prefix(movements[0]) != PrefixTiming {
		return nil, &RunStructureError{Line: movements[0].Number, Reason: "does not start with a TSP"}
	}
	if Prefix(movements[n-1]) != PrefixTiming {
		return nil, &RunStructureError{Line: movements[n-1].Number, Reason: "does not end with a TSP"}
	}

	events := make([]types.Event, 0, n)

	// dwell at the timing point the train is currently leaving
	var prevDwell float64

	for i, line := range movements {
		prefix := Prefix(line)

		switch {
		case i == 0:
			tsp, err := ParseTSP(line)
			if err != nil {
				return nil, err
			}
			ev := newEvent(tpl, line, types.RunOrigin)
			ev.Platform = tsp.Platform
			ev.ToTime = tsp.Departure
			ev.ToCode = tsp.Tiploc
			ev.ToName = res.StationName(tsp.Tiploc)
			ev.Route = route(ev.FromName, ev.ToName)
			if ev.RunTimeRange, err = TimeRange(ev.ToTime); err != nil {
				return nil, malformed(line, PrefixTiming, "%v", err)
			}
			events = append(events, ev)

			// the origin always counts as a stop
			prevDwell = 1

		case i == n-1:
			tsp, err := ParseTSP(line)
			if err != nil {
				return nil, err
			}
			ev := newEvent(tpl, line, types.RunDestination)
			ev.Platform = tsp.Platform
			ev.FromTime = tsp.Arrival
			ev.FromCode = tsp.Tiploc
			ev.ToCode = tsp.Tiploc
			ev.FromName = res.StationName(tsp.Tiploc)
			ev.ToName = ev.FromName
			ev.Route = route(ev.FromName, ev.ToName)
			if ev.RunTimeRange, err = TimeRange(ev.FromTime); err != nil {
				return nil, malformed(line, PrefixTiming, "%v", err)
			}
			events = append(events, ev)

		case prefix == PrefixTiming:
			tsp, err := ParseTSP(line)
			if err != nil {
				return nil, err
			}
			dwell, err := IntervalMinutes(tsp.Arrival, tsp.Departure)
			if err != nil {
				return nil, malformed(line, PrefixTiming, "%v", err)
			}
			prevDwell = dwell

			// zero dwell is a mandatory timing point with no event of its own
			if dwell <= 0 {
				continue
			}

			ev := newEvent(tpl, line, types.RunDwell)
			ev.Platform = tsp.Platform
			ev.FromTime = tsp.Arrival
			ev.ToTime = tsp.Departure
			ev.FromCode = tsp.Tiploc
			ev.ToCode = tsp.Tiploc
			ev.FromName = res.StationName(tsp.Tiploc)
			ev.ToName = ev.FromName
			ev.Route = route(ev.FromName, ev.ToName)
			ev.Dwell = types.Minutes(dwell)
			if ev.RunTimeRange, err = TimeRange(ev.FromTime); err != nil {
				return nil, malformed(line, PrefixTiming, "%v", err)
			}
			events = append(events, ev)

		case prefix == PrefixMovement:
			ev, err := deriveMovement(tpl, movements, i, prevDwell, res)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
			prevDwell = 0

		default:
			return nil, &UnexpectedPrefixError{Line: line.Number, Prefix: prefix}
		}
	}

	return events, nil
}

func deriveMovement(tpl types.Template, movements []types.Line, i int, prevDwell float64, res Resolver) (types.Event, error) {
	line := movements[i]
	tmv, err := ParseTMV(line)
	if err != nil {
		return types.Event{}, err
	}

	ev := newEvent(tpl, line, types.RunMovement)
	ev.FromCode = tmv.From
	ev.ToCode = tmv.To
	ev.RunningLine = tmv.RunningLine
	ev.FromTime = tmv.Departure
	ev.ToTime = tmv.Arrival
	ev.FromName = res.StationName(tmv.From)
	ev.ToName = res.StationName(tmv.To)
	ev.Route = route(ev.FromName, ev.ToName)
	if ev.RunTimeRange, err = TimeRange(ev.FromTime); err != nil {
		return types.Event{}, malformed(line, PrefixMovement, "%v", err)
	}

	prevMovement := movementPass
	if prevDwell > 0 {
		prevMovement = movementStop
	}
	nextMovement, err := nextMovementType(movements, i)
	if err != nil {
		return types.Event{}, err
	}
	ev.MovementType = prevMovement + " to " + nextMovement

	literals := []string{
		tmv.EngineeringAllowance,
		tmv.PathingAllowance,
		tmv.PerformanceAllowance,
		tmv.AdjustmentAllowance,
	}
	allowances := make([]float64, len(literals))
	var total float64
	for k, literal := range literals {
		if allowances[k], err = ParseAllowance(literal); err != nil {
			return types.Event{}, malformed(line, PrefixMovement, "%v", err)
		}
		total += allowances[k]
	}
	ev.EngineeringAllowance = types.Minutes(allowances[0])
	ev.PathingAllowance = types.Minutes(allowances[1])
	ev.PerformanceAllowance = types.Minutes(allowances[2])
	ev.AdjustmentAllowance = types.Minutes(allowances[3])

	runtime, err := IntervalMinutes(tmv.Departure, tmv.Arrival)
	if err != nil {
		return types.Event{}, malformed(line, PrefixMovement, "%v", err)
	}
	ev.Runtime = types.Minutes(runtime)
	ev.SectionalRunningTime = types.Minutes(runtime - total)
	ev.Dwell = types.Minutes(0)

	return ev, nil
}

// nextMovementType classifies what the train does at the end of movement i.
func nextMovementType(movements []types.Line, i int) (string, error) {
	// the terminal TSP is always a stop and has no departure to read
	if i == len(movements)-2 {
		return movementStop, nil
	}

	next := movements[i+1]
	switch prefix := Prefix(next); prefix {
	case PrefixMovement:
		return movementPass, nil
	case PrefixTiming:
		tsp, err := ParseTSP(next)
		if err != nil {
			return "", err
		}
		dwell, err := IntervalMinutes(tsp.Arrival, tsp.Departure)
		if err != nil {
			return "", malformed(next, PrefixTiming, "%v", err)
		}
		if dwell == 0 {
			return movementPass, nil
		}
		return movementStop, nil
	default:
		return "", &UnexpectedPrefixError{Line: next.Number, Prefix: prefix}
	}
}
