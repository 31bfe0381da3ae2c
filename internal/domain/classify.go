package domain

// Tier is one of the three ordered heat severity buckets, or Unknown when
// there is no data to classify.
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
	TierUnknown  Tier = "Unknown"
)

// Tier boundaries on the raw cell value scale. The primary coverage is a
// classification raster, not a continuous index, so no normalization occurs.
const (
	tierModerateMin = 5.0
	tierHighMin     = 10.0
)

// Classification is the scalar classification record carried by analysis
// results. Class is the numeric encoding (0 Low, 1 Moderate, 2 High) and is
// nil for Unknown.
type Classification struct {
	Class       *int   `json:"heat_class"`
	Label       Tier   `json:"heat_label"`
	Description string `json:"heat_description"`
}

var tierRules = []rule[float64, Classification]{
	{
		when: func(v float64) bool { return v < tierModerateMin },
		then: func(float64) Classification { return classificationFor(TierLow) },
	},
	{
		when: func(v float64) bool { return v < tierHighMin },
		then: func(float64) Classification { return classificationFor(TierModerate) },
	},
	{
		when: func(float64) bool { return true },
		then: func(float64) Classification { return classificationFor(TierHigh) },
	},
}

// Classify maps a sampled cell value to its severity tier. A nil value maps
// to the Unknown tier.
func Classify(value *float64) Classification {
	if value == nil {
		return classificationFor(TierUnknown)
	}
	return firstMatch(tierRules, *value)
}

// TierOf is the scalar threshold rule without the surrounding record.
func TierOf(v float64) Tier {
	return firstMatch(tierRules, v).Label
}

func classificationFor(t Tier) Classification {
	switch t {
	case TierLow:
		c := 0
		return Classification{Class: &c, Label: TierLow, Description: "Acts as a cooling or neutral zone"}
	case TierModerate:
		c := 1
		return Classification{Class: &c, Label: TierModerate, Description: "Potential heat accumulation zone"}
	case TierHigh:
		c := 2
		return Classification{Class: &c, Label: TierHigh, Description: "Heat hotspot requiring mitigation"}
	default:
		return Classification{Label: TierUnknown, Description: "Heat classification data unavailable"}
	}
}
