package values

// DataType enumerates the data types of the value model (spec §3, §4.1).
type DataType uint8

const (
	// TNone denotes an unresolved lookup or a legitimately empty list.
	TNone DataType = iota
	TString
	TInt
	TReal
	TBool
	TIList
	TSList
	TRList
	TContainer
	TFunctionCall
)

var typeNames = [...]string{
	TNone:         "none",
	TString:       "string",
	TInt:          "int",
	TReal:         "real",
	TBool:         "bool",
	TIList:        "ilist",
	TSList:        "slist",
	TRList:        "rlist",
	TContainer:    "container",
	TFunctionCall: "function-call",
}

func (t DataType) String() string {
	if int(t) >= len(typeNames) {
		return "invalid"
	}
	return typeNames[t]
}

// IsIterable reports whether values of this type may legitimately be a
// list-shaped value, and therefore may legitimately hold None to mean
// "empty list" (spec §4.1).
func (t DataType) IsIterable() bool {
	switch t {
	case TIList, TSList, TRList:
		return true
	default:
		return false
	}
}
