package textstyle

// numeric CSS font-weight to font style name, read only after init
var fontWeightTable = map[string]string{
	"100": "Thin",
	"200": "Extra Light",
	"300": "Light",
	"400": "Regular",
	"500": "Medium",
	"600": "Semi Bold",
	"700": "Bold",
	"800": "Extra Bold",
	"900": "Black",
}

// WeightName maps CSS font-weight value ("100".."900") to font style name.
// Anything else, including keywords like "bold", maps to DefaultWeight.
func WeightName(value string) string {
	if name, ok := fontWeightTable[value]; ok {
		return name
	}
	return DefaultWeight
}
