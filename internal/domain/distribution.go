package domain

// Distribution summarizes how a valid-pixel set splits across the three
// severity tiers. Percentages are rounded to two decimals for presentation;
// the dominant tier is selected from the unrounded counts so rounding can
// never change the result.
type Distribution struct {
	CountLow      int     `json:"count_low"`
	CountModerate int     `json:"count_moderate"`
	CountHigh     int     `json:"count_high"`

	PercentLow      float64 `json:"percentage_low"`
	PercentModerate float64 `json:"percentage_moderate"`
	PercentHigh     float64 `json:"percentage_high"`

	// Dominant is the tier with the highest pixel count. Exact ties resolve
	// in Low, Moderate, High order.
	Dominant Tier `json:"dominant_class"`

	// SeverityIndex weights Moderate at 0.5 and High at 1.0, yielding a
	// [0, 1] score. Zero for an empty set.
	SeverityIndex float64 `json:"severity_index"`

	TotalPixels int `json:"total_pixels"`
}

// AnalyzeDistribution bins a valid-pixel set into severity tiers.
// An empty set yields all-zero counts, an Unknown dominant tier, and a zero
// severity index.
func AnalyzeDistribution(pixels []float64) Distribution {
	if len(pixels) == 0 {
		return Distribution{Dominant: TierUnknown}
	}

	d := Distribution{TotalPixels: len(pixels)}
	for _, v := range pixels {
		switch TierOf(v) {
		case TierLow:
			d.CountLow++
		case TierModerate:
			d.CountModerate++
		case TierHigh:
			d.CountHigh++
		}
	}

	total := float64(d.TotalPixels)
	d.PercentLow = round2(float64(d.CountLow) / total * 100)
	d.PercentModerate = round2(float64(d.CountModerate) / total * 100)
	d.PercentHigh = round2(float64(d.CountHigh) / total * 100)

	d.Dominant = dominantTier(d)
	d.SeverityIndex = round3((0.5*float64(d.CountModerate) + float64(d.CountHigh)) / total)
	return d
}

// dominantTier scans tiers in ascending severity order keeping the first
// maximum, which gives Low precedence over Moderate over High on exact ties.
func dominantTier(d Distribution) Tier {
	dominant, best := TierLow, d.CountLow
	if d.CountModerate > best {
		dominant, best = TierModerate, d.CountModerate
	}
	if d.CountHigh > best {
		dominant = TierHigh
	}
	return dominant
}
