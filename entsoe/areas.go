package entsoe

// eicCodes maps the Swedish bidding zones to their ENTSO-E EIC area codes.
var eicCodes = map[string]string{
	"SE1": "10Y1001A1001A44P",
	"SE2": "10Y1001A1001A45N",
	"SE3": "10Y1001A1001A46L",
	"SE4": "10Y1001A1001A47J",
}

func eicCode(area string) (string, bool) {
	code, ok := eicCodes[area]
	return code, ok
}
