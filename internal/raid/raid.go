package raid

import "strings"

type Type string

const (
	Kirollas       Type = "Kirollas"
	Carno          Type = "Carno"
	Zenas          Type = "Zenas"
	Erenia         Type = "Erenia"
	Bellia         Type = "Bellia"
	Paimon         Type = "Paimon"
	RevenantPaimon Type = "RevenantPaimon"
	Alzanor        Type = "Alzanor"
	Valehir        Type = "Valehir"
	Asgobas        Type = "Asgobas"
)

// All lists every raid in the order they are offered in menus.
var All = []Type{
	Kirollas,
	Carno,
	Zenas,
	Erenia,
	Bellia,
	Paimon,
	RevenantPaimon,
	Alzanor,
	Valehir,
	Asgobas,
}

// Tracked are the raids a character must finish every day to count as complete.
var Tracked = []Type{Kirollas, Carno}

var shortSymbols = map[Type]string{
	Kirollas:       "-0",
	Carno:          "-B",
	Zenas:          "ZN",
	Erenia:         "ER",
	Bellia:         "BL",
	Paimon:         "PI",
	RevenantPaimon: "P2",
	Alzanor:        "AZ",
	Valehir:        "VH",
	Asgobas:        "AS",
}

func ParseType(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	for _, t := range All {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

func (t Type) ShortSymbol() string {
	return shortSymbols[t]
}

func IsTracked(t Type) bool {
	for _, tracked := range Tracked {
		if tracked == t {
			return true
		}
	}
	return false
}
