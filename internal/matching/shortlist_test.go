package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel_picker/internal/domain"
	"hostel_picker/internal/matching"
	"hostel_picker/internal/table"
)

func venue(name, city, price string) domain.Record {
	return domain.Record{
		"hostel_name": domain.Text(name),
		"city":        domain.Text(city),
		"pricing":     domain.Text(price),
	}
}

func names(cs []domain.RankedCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Record.Name()
	}
	return out
}

func TestShortlist_RanksByPrice(t *testing.T) {
	records := []domain.Record{venue("A", "Lima", "20"), venue("B", "Lima", "45")}
	p := domain.UserProfile{Destination: "Lima", MaxPrice: domain.Float(20)}

	got := newEngine().Shortlist(records, p, 5)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"A", "B"}, names(got))
	assert.Equal(t, 100, got[0].Scores.Price)
	assert.Equal(t, 38, got[1].Scores.Price)
	assert.Greater(t, got[0].Aggregate, got[1].Aggregate)
}

func TestShortlist_FromParsedText(t *testing.T) {
	// single-letter names are below the parser's name threshold
	assert.Empty(t, table.Parse("hostel_name,city,pricing\nA,Lima,20\nB,Lima,45\n"))

	recs := table.Parse("hostel_name,city,pricing\nAlpha,Lima,20\nBravo,Lima,45\n")
	got := newEngine().Shortlist(recs, domain.UserProfile{Destination: "Lima", MaxPrice: domain.Float(20)}, 5)
	assert.Equal(t, []string{"Alpha", "Bravo"}, names(got))
}

func TestShortlist_NonPositiveKReturnsNothing(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 20; i++ {
		records = append(records, venue("Venue "+string(rune('A'+i)), "Lima", "30"))
	}
	e := newEngine()
	p := domain.UserProfile{Destination: "Lima"}

	for _, k := range []int{0, -1} {
		got := e.Shortlist(records, p, k)
		assert.NotNil(t, got)
		assert.Empty(t, got, "k=%d", k)
	}
	assert.Len(t, e.Shortlist(records, p, 1), 1)
}

func TestShortlist_Empty(t *testing.T) {
	e := newEngine()
	assert.Empty(t, e.Shortlist(table.Parse(""), domain.UserProfile{}, 5))

	sl := e.Select(nil, domain.UserProfile{Destination: "Lima"}, matching.Options{})
	assert.NotNil(t, sl.Candidates)
	assert.Empty(t, sl.Candidates)
	assert.False(t, sl.Fallback)
}

func TestSelect_FiltersByDestination(t *testing.T) {
	records := []domain.Record{
		venue("Cusco One", "Cusco", "30"),
		venue("Lima One", " LIMA ", "50"),
		venue("Lima Two", "lima", "30"),
	}
	sl := newEngine().Select(records, domain.UserProfile{Destination: "Lima"}, matching.Options{K: 5})
	assert.False(t, sl.Fallback)
	assert.Equal(t, 2, sl.Pool)
	assert.Equal(t, []string{"Lima Two", "Lima One"}, names(sl.Candidates))
}

func TestSelect_FallbackTakesHeadBeforeScoring(t *testing.T) {
	records := []domain.Record{
		venue("First", "Cusco", "80"),
		venue("Second", "Cusco", "30"),
		venue("Third", "Cusco", "30"),
	}
	p := domain.UserProfile{Destination: "Lima"}

	sl := newEngine().Select(records, p, matching.Options{K: 2})
	assert.True(t, sl.Fallback)
	assert.Equal(t, 2, sl.Pool)
	assert.Equal(t, []string{"Second", "First"}, names(sl.Candidates))

	sl = newEngine().Select(records, p, matching.Options{K: 2, FallbackPool: 25})
	assert.True(t, sl.Fallback)
	assert.Equal(t, 3, sl.Pool)
	assert.Equal(t, []string{"Second", "Third"}, names(sl.Candidates))
}

func TestSelect_EmptyDestinationFallsBack(t *testing.T) {
	records := []domain.Record{venue("NoCity", "", "30"), venue("Lima One", "Lima", "30")}
	sl := newEngine().Select(records, domain.UserProfile{}, matching.Options{})
	assert.True(t, sl.Fallback)
	assert.Len(t, sl.Candidates, 2)
}

func TestSelect_StableOnTies(t *testing.T) {
	var records []domain.Record
	want := []string{"v0", "v1", "v2", "v3", "v4", "v5"}
	for _, n := range want {
		records = append(records, venue(n, "Lima", "30"))
	}
	sl := newEngine().Select(records, domain.UserProfile{Destination: "lima"}, matching.Options{K: 4})
	assert.Equal(t, want[:4], names(sl.Candidates))
}

func TestSelect_DefaultK(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 40; i++ {
		records = append(records, venue("Venue "+string(rune('A'+i%26))+string(rune('a'+i/26)), "Lima", "30"))
	}
	sl := newEngine().Select(records, domain.UserProfile{Destination: "Lima"}, matching.Options{})
	assert.Len(t, sl.Candidates, matching.DefaultK)
	assert.Equal(t, 40, sl.Pool)
}

func TestSelect_DoesNotMutateRecords(t *testing.T) {
	records := []domain.Record{venue("Alpha", "Lima", "45"), venue("Bravo", "Lima", "20")}
	before := []domain.Record{venue("Alpha", "Lima", "45"), venue("Bravo", "Lima", "20")}

	sl := newEngine().Select(records, domain.UserProfile{Destination: "Lima", MaxPrice: domain.Float(20)}, matching.Options{})
	assert.Equal(t, before, records)
	assert.Equal(t, []string{"Bravo", "Alpha"}, names(sl.Candidates))
}

func TestSelect_Deterministic(t *testing.T) {
	text := "hostel_name,city,pricing,vibe_dna,noise_level\n" +
		"Alpha,Lima,28,party bar,loud\nBravo,Lima,31,chill garden,quiet\nCharlie,Lima,30,social,medium\n"
	p := domain.UserProfile{Destination: "Lima", Vibe: "chill", NoiseLevel: domain.Float(20)}
	e := newEngine()
	first := e.Select(table.Parse(text), p, matching.Options{K: 3})
	second := e.Select(table.Parse(text), p, matching.Options{K: 3})
	assert.Equal(t, first, second)
	assert.Equal(t, "Bravo", first.Candidates[0].Record.Name())
}
