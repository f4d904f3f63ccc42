// Package synth generates the four synthetic source feeds: PAS patient
// demographics, EHR encounters, LIMS lab results, and appointment
// bookings. All output is deterministic for a given seed, so a feed can
// be regenerated byte-for-byte for debugging a downstream run.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"nhspipeline/internal/nhsnum"
)

// Generator produces synthetic feed records. Records reference each
// other through NHS numbers: generate patients first, then pass them to
// the event generators so encounters, labs, and appointments land on
// real patients.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// New returns a generator seeded for reproducibility. A zero seed picks
// a time-based one.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// weighted picks an index into weights proportionally. Weights need not
// sum to 1.
func (g *Generator) weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func (g *Generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

// nhsNumber generates a valid NHS number. Roughly one prefix in eleven
// computes to check digit 10 and has no valid number, so retry.
func (g *Generator) nhsNumber() string {
	for {
		var b [9]byte
		for i := range b {
			b[i] = byte('0' + g.rng.Intn(10))
		}
		check, ok := nhsnum.CheckDigit(string(b[:]))
		if ok {
			return string(append(b[:], check))
		}
	}
}

func (g *Generator) clinicianID() string {
	return fmt.Sprintf("CLIN%d", 1000+g.rng.Intn(9000))
}

// daysAgo returns a timestamp up to max days in the past, with a random
// time of day.
func (g *Generator) daysAgo(max int) time.Time {
	t := g.now.AddDate(0, 0, -g.rng.Intn(max+1))
	return time.Date(t.Year(), t.Month(), t.Day(),
		g.rng.Intn(24), g.rng.Intn(60), g.rng.Intn(60), 0, time.UTC)
}

var (
	firstNamesMale = []string{
		"James", "John", "Robert", "William", "David", "Thomas", "Callum",
		"Andrew", "Stewart", "Gordon", "Iain", "Fraser", "Angus", "Ewan",
		"Hamish", "Duncan", "Alistair", "Graeme", "Ross", "Neil",
	}
	firstNamesFemale = []string{
		"Mary", "Margaret", "Elizabeth", "Sarah", "Fiona", "Morag",
		"Isla", "Eilidh", "Catriona", "Mhairi", "Kirsty", "Shona",
		"Aileen", "Heather", "Janet", "Karen", "Lorna", "Moira",
		"Rhona", "Senga",
	}
	lastNames = []string{
		"Smith", "Brown", "Wilson", "Robertson", "Campbell", "Thomson",
		"Stewart", "Anderson", "MacDonald", "Scott", "Reid", "Murray",
		"Taylor", "Clark", "Ross", "Young", "Mitchell", "Watson",
		"Morrison", "Fraser", "Davidson", "Macleod", "Hamilton", "Graham",
	}

	titlesMale   = []string{"Mr", "Dr", "Rev"}
	titlesFemale = []string{"Mrs", "Miss", "Ms", "Dr", "Rev"}

	cities = []string{
		"Edinburgh", "Glasgow", "Aberdeen", "Dundee",
		"Inverness", "Stirling", "Perth", "Paisley",
	}

	streetNames = []string{
		"High Street", "Union Street", "Castle Road", "Queensferry Road",
		"Victoria Terrace", "Mill Lane", "Station Road", "Harbour View",
		"George Street", "Royal Crescent", "Lochside Avenue", "Braeside Drive",
	}

	ethnicities       = []string{"White British", "White Other", "Asian", "Black", "Mixed", "Other"}
	ethnicityWeights  = []float64{0.84, 0.08, 0.04, 0.02, 0.01, 0.01}
	nokRelationships  = []string{"Spouse", "Child", "Parent", "Sibling", "Friend"}
	postcodePrefixes  = []string{"EH", "G", "AB", "DD", "IV", "FK", "PH", "PA"}
	emailDomains      = []string{"example.com", "example.org", "example.net"}
)

func (g *Generator) postcode() string {
	return fmt.Sprintf("%s%d %d%c%c",
		g.pick(postcodePrefixes), 1+g.rng.Intn(40),
		1+g.rng.Intn(9), 'A'+rune(g.rng.Intn(26)), 'A'+rune(g.rng.Intn(26)))
}

func (g *Generator) phone() string {
	return fmt.Sprintf("0131 %03d %04d", 100+g.rng.Intn(900), g.rng.Intn(10000))
}
