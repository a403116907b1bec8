package matching

import (
	"math"
	"strings"

	"hostel_picker/internal/domain"
	"hostel_picker/internal/table"
)

// Neutral is the score used whenever an input is missing or unreadable.
const Neutral = 50.0

const (
	defaultRank         = 5.0
	defaultHostelAge    = 25.0
	priceDecayPerUnit   = 2.5
	ageDecayPerYear     = 5.0
	sizeExact           = 100.0
	sizeAdjacent        = 70.0
	sizeMismatch        = 30.0
	nationalityMatch    = 100.0
	nationalityMismatch = 20.0
)

// clamp bounds v to [0,100]; NaN becomes 0.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// NomadScore is rank*10 from the digital_nomad_score JSON cell.
func NomadScore(r domain.Record) float64 { return rankScore(r, "nomad") }

// SoloScore is rank*10 from the solo_verdict JSON cell.
func SoloScore(r domain.Record) float64 { return rankScore(r, "solo") }

func rankScore(r domain.Record, name string) float64 {
	v, ok := field(r, name)
	if !ok {
		return Neutral
	}
	js, isJSON := v.(domain.JSON)
	if !isJSON {
		return Neutral
	}
	rank, ok := anyFloat(js.Object["rank"])
	if !ok {
		rank = defaultRank
	}
	return clamp(rank * 10)
}

// PriceProximity peaks at 100 when price equals target and loses 2.5 points
// per currency unit in either direction.
func PriceProximity(price, target float64) float64 {
	return clamp(100 - math.Abs(price-target)*priceDecayPerUnit)
}

// PriceScore compares the venue's pricing with profile.maxPrice.
func PriceScore(r domain.Record, p domain.UserProfile) float64 {
	price, ok := fieldNumber(r, "price")
	if !ok {
		return Neutral
	}
	return PriceProximity(price, p.TargetPrice())
}

// NoiseLevelOf maps free-text venue noise to a level. The first level with a
// matching keyword wins; unmatched text is Neutral.
func NoiseLevelOf(text string, levels []NoiseLevel) float64 {
	text = strings.ToLower(text)
	for _, l := range levels {
		for _, kw := range l.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				return l.Level
			}
		}
	}
	return Neutral
}

// NoiseScore compares the venue's noise level with profile.noiseLevel.
func NoiseScore(r domain.Record, p domain.UserProfile, levels []NoiseLevel) float64 {
	level := NoiseLevelOf(fieldText(r, "noise"), levels)
	return clamp(100 - math.Abs(p.NoisePref()-level))
}

// BucketMatch counts the buckets whose label appears in userText (checks) and,
// of those, the ones with a keyword present in venueText (hits).
func BucketMatch(userText, venueText string, buckets Buckets) (hits, checks int) {
	userText = strings.ToLower(userText)
	venueText = strings.ToLower(venueText)
	for label, keywords := range buckets {
		if label == "" || !strings.Contains(userText, strings.ToLower(label)) {
			continue
		}
		checks++
		for _, kw := range keywords {
			if kw != "" && strings.Contains(venueText, strings.ToLower(kw)) {
				hits++
				break
			}
		}
	}
	return hits, checks
}

func bucketScore(userText, venueText string, buckets Buckets) float64 {
	hits, checks := BucketMatch(userText, venueText, buckets)
	if checks == 0 {
		return Neutral
	}
	return clamp(math.Round(float64(hits) / float64(checks) * 100))
}

// VibeScore matches profile.vibe against the venue's vibe text. A venue that
// quotes the whole user vibe scores 100.
func VibeScore(r domain.Record, p domain.UserProfile, buckets Buckets) float64 {
	venue := fieldText(r, "vibe")
	user := strings.ToLower(strings.TrimSpace(p.Vibe))
	if user != "" && venue != "" && strings.Contains(venue, user) {
		return 100
	}
	return bucketScore(user, venue, buckets)
}

// FacilitiesScore matches profile.vibe and profile.requirements against the
// venue's facilities text.
func FacilitiesScore(r domain.Record, p domain.UserProfile, buckets Buckets) float64 {
	return bucketScore(p.Vibe+" "+p.Requirements, fieldText(r, "facilities"), buckets)
}

// AgeScore loses 5 points per year between the user and the venue average.
func AgeScore(r domain.Record, p domain.UserProfile) float64 {
	hostelAge, ok := fieldNumber(r, "age")
	if !ok {
		hostelAge = defaultHostelAge
	}
	return clamp(100 - math.Abs(p.UserAge()-hostelAge)*ageDecayPerYear)
}

var sizeClasses = []string{"small", "medium", "large"}

var adjacentSizes = map[string][]string{
	"small":  {"medium"},
	"medium": {"small", "large"},
	"large":  {"medium"},
}

// SizeScore compares profile.size with the venue's rooms_info.
func SizeScore(r domain.Record, p domain.UserProfile) float64 {
	want := strings.ToLower(strings.TrimSpace(p.Size))
	rooms := fieldText(r, "rooms")
	if want == "" || rooms == "" {
		return Neutral
	}
	if strings.Contains(rooms, want) {
		return sizeExact
	}
	for _, class := range sizeClasses {
		if !strings.Contains(want, class) {
			continue
		}
		for _, adj := range adjacentSizes[class] {
			if strings.Contains(rooms, adj) {
				return sizeAdjacent
			}
		}
		break
	}
	return sizeMismatch
}

// NationalityScore looks for profile.nationalityPref in the venue's
// country_info mapping. Matching is a case-insensitive substring test in
// either direction, so "german" matches "Germany".
func NationalityScore(r domain.Record, p domain.UserProfile) float64 {
	pref := strings.ToLower(strings.TrimSpace(p.NationalityPref))
	if pref == "" {
		return nationalityMatch
	}
	countries, ok := countryCounts(r)
	if !ok {
		return Neutral
	}
	for country := range countries {
		c := strings.ToLower(strings.TrimSpace(country))
		if c == "" {
			continue
		}
		if strings.Contains(c, pref) || strings.Contains(pref, c) {
			return nationalityMatch
		}
	}
	return nationalityMismatch
}

func countryCounts(r domain.Record) (map[string]any, bool) {
	v, ok := field(r, "countries")
	if !ok {
		return nil, false
	}
	switch c := v.(type) {
	case domain.JSON:
		return c.Object, true
	case domain.Text:
		s := strings.TrimSpace(string(c))
		if obj, ok := table.DecodeObject(strings.ReplaceAll(s, `""`, `"`)); ok {
			return obj, true
		}
		return table.DecodeObject(s)
	}
	return nil, false
}
