package pex

const UnknownOperator = "Unknown operator code"

// Resolver turns operator and TIPLOC codes into display names. Both lookups are total.
type Resolver interface {
	OperatorName(code string) string
	StationName(code string) string
}

// Reference is a Resolver over two plain maps.
type Reference struct {
	operators map[string]string
	stations  map[string]string
}

func NewReference(operators, stations map[string]string) *Reference {
	if operators == nil {
		operators = map[string]string{}
	}
	if stations == nil {
		stations = map[string]string{}
	}
	return &Reference{operators: operators, stations: stations}
}

func (r *Reference) OperatorName(code string) string {
	if name, ok := r.operators[code]; ok {
		return name
	}
	return UnknownOperator
}

// StationName falls back to the code itself when the TIPLOC is not known.
func (r *Reference) StationName(code string) string {
	if name, ok := r.stations[code]; ok {
		return name
	}
	return code
}

func (r *Reference) Len() (operators, stations int) {
	return len(r.operators), len(r.stations)
}
