package domain

import "fmt"

// ZonePlan is the AOI-level recommendation record: a zone classification with
// a priority level and an ordered list of key actions.
type ZonePlan struct {
	ZoneType    string   `json:"zone_type"`
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	Priority    string   `json:"priority_level"`
	KeyActions  []string `json:"key_actions"`
}

// Priority levels carried by zone plans.
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityModerate = "Moderate"
)

// Zone classification labels.
const (
	ZoneSevereHeat   = "Severe Heat Action Zone"
	ZoneMitigation   = "Heat Mitigation Priority"
	ZoneConservation = "Conservation Priority Zone"
	ZoneMixed        = "Mixed Urban Thermal Zone"
)

// RecommendationsForTier maps a point-level tier to its fixed action list.
// Unknown yields an empty list. The returned slice is freshly allocated.
func RecommendationsForTier(t Tier) []string {
	return firstMatch(pointRules, t)
}

var pointRules = []rule[Tier, []string]{
	{
		when: func(t Tier) bool { return t == TierHigh },
		then: func(Tier) []string {
			return []string{
				"CRITICAL ACTION REQUIRED: Deploy rapid urban cooling strategies immediately. " +
					"Install emergency shade structures, activate misting stations, apply reflective " +
					"coatings to pavements and rooftops, and establish cooling centers for public safety.",
				"ACCELERATED GREENING MANDATE: Launch an intensive urban forestry campaign with " +
					"fast-growing native species. Create green corridors using containerized mature " +
					"trees, install modular green walls, and open pocket parks with shade canopies to " +
					"rapidly introduce evapotranspirative cooling.",
				"INFRASTRUCTURE RETROFIT PROGRAM: Transform heat-absorbing surfaces into cooling " +
					"assets. Mandate cool roof installations on commercial buildings, convert parking " +
					"lots to permeable green parking, implement bioswale networks, and integrate water " +
					"features for evaporative temperature reduction.",
			}
		},
	},
	{
		when: func(t Tier) bool { return t == TierModerate },
		then: func(Tier) []string {
			return []string{
				"TARGETED MITIGATION: Implement strategic cooling interventions to prevent " +
					"escalation. Expand tree canopy coverage to 30-40% through systematic street tree " +
					"planting, establish green corridors connecting parks, and deploy cool roof " +
					"programs prioritizing high-exposure buildings.",
				"VEGETATION ENHANCEMENT PLAN: Address the cooling capacity deficit with multi-scale " +
					"greening. Plant shade trees along pedestrian routes, create neighborhood " +
					"micro-forests, establish vegetated buffers between built-up areas, and " +
					"incentivize residential yard greening.",
				"CONTINUOUS MONITORING PROTOCOL: Track thermal trends to guide adaptive management. " +
					"Install temperature sensors at key locations, monitor seasonal heat patterns via " +
					"remote sensing, and adjust mitigation strategies before heat intensifies.",
			}
		},
	},
	{
		when: func(t Tier) bool { return t == TierLow },
		then: func(Tier) []string {
			return []string{
				"CONSERVATION PRIORITY ZONE: This area functions as a critical cooling asset with " +
					"excellent thermal regulation. Implement strict protection policies: require " +
					"replacement permits for tree removal, preserve vegetated area through ordinances, " +
					"prevent impervious surface expansion, and designate the area as an ecological " +
					"cooling corridor.",
			}
		},
	},
	{
		when: func(Tier) bool { return true },
		then: func(Tier) []string { return []string{} },
	},
}

// zoneInput feeds the AOI rule table: the tier distribution plus the
// projected area used in the templated text.
type zoneInput struct {
	dist Distribution
	area float64
}

// PlanForDistribution classifies an AOI's overall thermal profile from its
// tier distribution. Thresholds are strict: exactly 40% High does not
// qualify as severe. Rules are evaluated in order, first match wins.
func PlanForDistribution(d Distribution, areaSqKm float64) ZonePlan {
	return firstMatch(zoneRules, zoneInput{dist: d, area: areaSqKm})
}

var zoneRules = []rule[zoneInput, ZonePlan]{
	{
		when: func(in zoneInput) bool { return in.dist.PercentHigh > 40 },
		then: severePlan,
	},
	{
		when: func(in zoneInput) bool { return in.dist.PercentHigh+in.dist.PercentModerate > 60 },
		then: mitigationPlan,
	},
	{
		when: func(in zoneInput) bool { return in.dist.PercentLow > 70 },
		then: conservationPlan,
	},
	{
		when: func(zoneInput) bool { return true },
		then: mixedPlan,
	},
}

func severePlan(in zoneInput) ZonePlan {
	return ZonePlan{
		ZoneType: ZoneSevereHeat,
		Title:    "CRITICAL: Severe Urban Heat Island - Immediate Intervention Required",
		Explanation: fmt.Sprintf(
			"This %.2f km² area exhibits severe heat stress with %.1f%% classified as High "+
				"intensity. This represents a critical public health risk requiring immediate "+
				"cooling interventions. The severity index of %.2f indicates an urgent need for "+
				"comprehensive heat mitigation strategies.",
			in.area, in.dist.PercentHigh, in.dist.SeverityIndex),
		Priority: PriorityCritical,
		KeyActions: []string{
			"EMERGENCY COOLING DEPLOYMENT: Install emergency shade structures and activate " +
				"misting stations at pedestrian gathering points within 30 days.",
			fmt.Sprintf("RAPID URBAN FORESTRY: Launch an accelerated planting campaign targeting "+
				"500+ mature native trees across the %.2f km² zone, prioritizing containerized "+
				"specimens for immediate canopy coverage.", in.area),
			"MANDATORY COOL ROOF PROGRAM: Enforce reflective roof installations on commercial " +
				"and public buildings and subsidize cool roof coatings for residential structures.",
			"WATER FEATURE INTEGRATION: Deploy evaporative cooling infrastructure including " +
				"bioswales, rain gardens, and permeable pavement to create cooling microclimates.",
			"CONTINUOUS THERMAL MONITORING: Establish a real-time temperature sensor network to " +
				"track intervention effectiveness and guide adaptive management.",
		},
	}
}

func mitigationPlan(in zoneInput) ZonePlan {
	combined := in.dist.PercentHigh + in.dist.PercentModerate
	return ZonePlan{
		ZoneType: ZoneMitigation,
		Title:    "HIGH PRIORITY: Heat Accumulation Zone - Targeted Mitigation Required",
		Explanation: fmt.Sprintf(
			"This %.2f km² area shows significant heat accumulation with %.1f%% classified as "+
				"Moderate-to-High intensity (%.1f%% High, %.1f%% Moderate). Without intervention, "+
				"thermal conditions will likely intensify. The severity index of %.2f indicates "+
				"proactive mitigation is essential.",
			in.area, combined, in.dist.PercentHigh, in.dist.PercentModerate, in.dist.SeverityIndex),
		Priority: PriorityHigh,
		KeyActions: []string{
			fmt.Sprintf("STRATEGIC GREENING PROGRAM: Expand tree canopy coverage to 30-40%% "+
				"through systematic street tree planting across %.2f km², focusing on "+
				"heat-vulnerable corridors and parking areas.", in.area),
			"GREEN INFRASTRUCTURE NETWORK: Create interconnected green corridors linking parks " +
				"and vegetated spaces to enhance cooling air circulation.",
			"COOL SURFACE INITIATIVE: Implement cool pavement programs for high-traffic areas " +
				"and apply reflective coatings to reduce surface temperatures.",
			"COMMUNITY GREENING INCENTIVES: Launch residential yard greening programs with " +
				"native plant subsidies and promote vertical gardens on building facades.",
			"HEAT TREND MONITORING: Conduct seasonal thermal assessments using remote sensing " +
				"to track mitigation effectiveness and adjust strategies.",
		},
	}
}

func conservationPlan(in zoneInput) ZonePlan {
	return ZonePlan{
		ZoneType: ZoneConservation,
		Title:    "CONSERVATION PRIORITY: Critical Cooling Asset - Protection Required",
		Explanation: fmt.Sprintf(
			"This %.2f km² area functions as a vital cooling corridor with %.1f%% classified as "+
				"Low intensity. The zone provides essential thermal regulation services to "+
				"surrounding areas. The low severity index of %.2f confirms natural cooling "+
				"capacity that must be preserved through strict conservation policies.",
			in.area, in.dist.PercentLow, in.dist.SeverityIndex),
		Priority: PriorityModerate,
		KeyActions: []string{
			"STRICT VEGETATION PROTECTION: Require tree removal permits with 3:1 replacement " +
				"ratios and prohibit net loss of vegetated area through development regulations.",
			"ECOLOGICAL CORRIDOR DESIGNATION: Formally designate the zone as a protected " +
				"cooling corridor in urban plans and prevent impervious surface expansion.",
			"GREEN SPACE ENHANCEMENT: Increase vegetation density through native species " +
				"plantings to strengthen existing cooling capacity without altering land use.",
			"CONSERVATION EASEMENTS: Establish voluntary conservation agreements with property " +
				"owners and offer tax incentives for preserving natural cooling features.",
			"LONG-TERM MONITORING: Conduct annual thermal assessments so thermal degradation " +
				"is detected before cooling capacity is compromised.",
		},
	}
}

func mixedPlan(in zoneInput) ZonePlan {
	return ZonePlan{
		ZoneType: ZoneMixed,
		Title:    "BALANCED MANAGEMENT: Mixed Thermal Profile - Adaptive Strategy Required",
		Explanation: fmt.Sprintf(
			"This %.2f km² area exhibits a mixed thermal profile (%.1f%% High, %.1f%% Moderate, "+
				"%.1f%% Low). The heterogeneous landscape requires spatially targeted "+
				"interventions that address localized hotspots while preserving existing cooling "+
				"zones. The severity index of %.2f suggests combining mitigation and conservation.",
			in.area, in.dist.PercentHigh, in.dist.PercentModerate, in.dist.PercentLow,
			in.dist.SeverityIndex),
		Priority: PriorityModerate,
		KeyActions: []string{
			fmt.Sprintf("SPATIAL TARGETING: Use high-resolution thermal mapping to identify and "+
				"prioritize specific hotspots within the %.2f km² zone.", in.area),
			"SELECTIVE GREENING: Deploy strategic tree planting in identified heat accumulation " +
				"pockets with low vegetation and high built-up density.",
			"HYBRID APPROACH: Combine aggressive cooling measures in high-intensity zones with " +
				"conservation practices in low-intensity zones.",
			"NEIGHBORHOOD-SCALE INTERVENTIONS: Implement block-by-block cooling strategies " +
				"tailored to local thermal conditions.",
			"ADAPTIVE MANAGEMENT: Conduct quarterly thermal assessments to track spatial shifts " +
				"in heat distribution and reprioritize interventions.",
		},
	}
}
