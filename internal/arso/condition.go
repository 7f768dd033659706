package arso

import "strings"

// Condition is the normalized weather-state vocabulary handed to the
// presentation layer.
type Condition string

const (
	ConditionUnknown        Condition = "unknown"
	ConditionSunny          Condition = "sunny"
	ConditionClearNight     Condition = "clear-night"
	ConditionPartlyCloudy   Condition = "partlycloudy"
	ConditionCloudy         Condition = "cloudy"
	ConditionFog            Condition = "fog"
	ConditionRainy          Condition = "rainy"
	ConditionPouring        Condition = "pouring"
	ConditionLightning      Condition = "lightning"
	ConditionLightningRainy Condition = "lightning-rainy"
	ConditionSnowy          Condition = "snowy"
	ConditionSnowyRainy     Condition = "snowy-rainy"
	ConditionHail           Condition = "hail"
	ConditionWindy          Condition = "windy"
	ConditionWindyVariant   Condition = "windy-variant"
)

// windDirectionMap remaps the Slovenian 8-point compass vocabulary to the
// canonical one. Unrecognized values pass through unchanged.
var windDirectionMap = map[string]string{
	"S":  "N",
	"J":  "S",
	"V":  "E",
	"Z":  "W",
	"SV": "NE",
	"SZ": "NW",
	"JV": "SE",
	"JZ": "SW",
}

// RemapWindDirection translates a Slovenian compass point; unknown input is
// returned as-is, absent stays absent.
func RemapWindDirection(s String) String {
	if !s.Valid {
		return s
	}
	if mapped, ok := windDirectionMap[s.Value]; ok {
		return StringOf(mapped)
	}
	return s
}

// cloudCoverageMap converts the textual cloud-cover estimate to a percentage.
var cloudCoverageMap = map[string]float64{
	"jasno":             0,
	"pretežno jasno":    12.5,
	"delno jasno":       25,
	"delno oblačno":     50,
	"zmerno oblačno":    62.5,
	"pretežno oblačno":  87.5,
	"oblačno":           100,
}

// CloudCoveragePercent converts a textual cloud-cover description to percent.
func CloudCoveragePercent(text String) Float {
	if !text.Valid {
		return Float{}
	}
	if pct, ok := cloudCoverageMap[strings.ToLower(strings.TrimSpace(text.Value))]; ok {
		return FloatOf(pct)
	}
	return Float{}
}

// conditionMap translates ARSO icon names and Slovenian descriptions to the
// normalized condition vocabulary. Keys are lowercase.
var conditionMap = map[string]Condition{
	// Textual descriptions (wwsyn_shortText, clouds_shortText).
	"jasno":            ConditionSunny,
	"delno oblačno":    ConditionPartlyCloudy,
	"zmerno oblačno":   ConditionPartlyCloudy,
	"pretežno oblačno": ConditionCloudy,
	"oblačno":          ConditionCloudy,
	"megla":            ConditionFog,
	"dežuje":           ConditionRainy,
	"dež":              ConditionRainy,
	"plohe":            ConditionPouring,
	"možnost neviht":   ConditionLightningRainy,
	"nevihte":          ConditionLightningRainy,
	"sneži":            ConditionSnowy,
	"sneg":             ConditionSnowy,
	"sneg z dežjem":    ConditionSnowyRainy,
	"toča":             ConditionHail,
	"vetrovno":         ConditionWindy,
	"veter z oblaki":   ConditionWindyVariant,

	// Clear and partly cloudy icons (clouds_icon_wwsyn_icon).
	"clear_day":             ConditionSunny,
	"clear_night":           ConditionClearNight,
	"mostclear_day":         ConditionSunny,
	"mostclear_night":       ConditionClearNight,
	"partcloudy_day":        ConditionPartlyCloudy,
	"partcloudy_night":      ConditionPartlyCloudy,
	"modcloudy_day":         ConditionPartlyCloudy,
	"modcloudy_night":       ConditionPartlyCloudy,
	"prevcloudy_day":        ConditionCloudy,
	"prevcloudy_night":      ConditionCloudy,
	"overcast_day":          ConditionCloudy,
	"overcast_night":        ConditionCloudy,
	"partcloudy_lightra_day":    ConditionPouring,
	"partcloudy_lightra_night":  ConditionPouring,
	"partcloudy_modra_day":      ConditionRainy,
	"partcloudy_modra_night":    ConditionRainy,
	"partcloudy_heavytsra_day":  ConditionLightningRainy,
	"partcloudy_heavytsra_night": ConditionLightningRainy,
	"partcloudy_lightsn_day":    ConditionSnowy,
	"partcloudy_lightsn_night":  ConditionSnowy,
	"partcloudy_modsn_day":      ConditionSnowy,
	"partcloudy_modsn_night":    ConditionSnowy,
	"partcloudy_heavysn_day":    ConditionSnowy,
	"partcloudy_heavysn_night":  ConditionSnowy,
	"partcloudy_lightfg_day":    ConditionFog,
	"partcloudy_lightfg_night":  ConditionFog,
	"partcloudy_lightrasn_day":  ConditionSnowyRainy,
	"partcloudy_lightrasn_night": ConditionSnowyRainy,

	// Overcast icons.
	"overcast_lightra_day":     ConditionRainy,
	"overcast_lightra_night":   ConditionRainy,
	"overcast_modra_day":       ConditionRainy,
	"overcast_modra_night":     ConditionRainy,
	"overcast_heavyra_day":     ConditionRainy,
	"overcast_heavyra_night":   ConditionRainy,
	"overcast_lighttsra_day":   ConditionLightningRainy,
	"overcast_lighttsra_night": ConditionLightningRainy,
	"overcast_modtsra_day":     ConditionLightningRainy,
	"overcast_modtsra_night":   ConditionLightningRainy,
	"overcast_heavytsra_day":   ConditionLightningRainy,
	"overcast_heavytsra_night": ConditionLightningRainy,
	"overcast_lightsn_day":     ConditionSnowy,
	"overcast_lightsn_night":   ConditionSnowy,
	"overcast_modsn_day":       ConditionSnowy,
	"overcast_modsn_night":     ConditionSnowy,
	"overcast_heavysn_day":     ConditionSnowy,
	"overcast_heavysn_night":   ConditionSnowy,
	"overcast_lightrasn_day":   ConditionSnowyRainy,
	"overcast_lightrasn_night": ConditionSnowyRainy,
	"overcast_modrasn_day":     ConditionSnowyRainy,
	"overcast_modrasn_night":   ConditionSnowyRainy,
	"overcast_heavyrasn_day":   ConditionSnowyRainy,
	"overcast_heavyrasn_night": ConditionSnowyRainy,
	"overcast_modtssn_day":     ConditionLightning,
	"overcast_modtssn_night":   ConditionLightning,
	"overcast_heavytssn_day":   ConditionLightning,
	"overcast_heavytssn_night": ConditionLightning,
	"overcast_lightfg_day":     ConditionFog,
	"overcast_lightfg_night":   ConditionFog,

	// Bare phenomenon icons (wwsyn_icon).
	"lightra":  ConditionRainy,
	"modra":    ConditionRainy,
	"heavyra":  ConditionRainy,
	"lighttsra": ConditionLightningRainy,
	"modtsra":  ConditionLightningRainy,
	"heavytsra": ConditionLightningRainy,
	"lightsn":  ConditionSnowy,
	"modsn":    ConditionSnowy,
	"heavysn":  ConditionSnowy,
	"lightrasn": ConditionSnowyRainy,
	"modrasn":  ConditionSnowyRainy,
	"lightfg":  ConditionFog,
	"modfg":    ConditionFog,
}

// Condition derives the normalized weather state. Icon fields are more
// specific than free text, so they are checked first; the first table hit
// wins and anything unmatched is unknown.
func (e TimelineEntry) Condition() Condition {
	candidates := []String{
		e.CombinedIcon,
		e.CombinedText,
		e.PhenomenonIcon,
		e.PhenomenonText,
		e.CloudCoverText,
	}
	for _, c := range candidates {
		if !c.Valid {
			continue
		}
		if cond, ok := conditionMap[strings.ToLower(strings.TrimSpace(c.Value))]; ok {
			return cond
		}
	}
	return ConditionUnknown
}
