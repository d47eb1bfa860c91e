package engine

import (
	"math"
	"time"
)

// Zodiac describes a western zodiac sign and the calendar range it covers.
type Zodiac struct {
	Sign    string
	Symbol  string
	Element string
	Traits  string

	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
}

var zodiacSigns = []Zodiac{
	{"Capricorn", "♑", "Earth", "Ambitious, disciplined, patient, careful, humorous, reserved", time.December, 22, time.January, 19},
	{"Aquarius", "♒", "Air", "Progressive, original, independent, humanitarian, idealistic", time.January, 20, time.February, 18},
	{"Pisces", "♓", "Water", "Compassionate, artistic, intuitive, gentle, wise, musical", time.February, 19, time.March, 20},
	{"Aries", "♈", "Fire", "Courageous, determined, confident, enthusiastic, optimistic, honest, passionate", time.March, 21, time.April, 19},
	{"Taurus", "♉", "Earth", "Reliable, patient, practical, devoted, responsible, stable", time.April, 20, time.May, 20},
	{"Gemini", "♊", "Air", "Gentle, affectionate, curious, adaptable, quick learner", time.May, 21, time.June, 20},
	{"Cancer", "♋", "Water", "Tenacious, loyal, emotional, sympathetic, persuasive", time.June, 21, time.July, 22},
	{"Leo", "♌", "Fire", "Creative, passionate, generous, warm-hearted, cheerful, humorous", time.July, 23, time.August, 22},
	{"Virgo", "♍", "Earth", "Loyal, analytical, kind, hardworking, practical", time.August, 23, time.September, 22},
	{"Libra", "♎", "Air", "Cooperative, diplomatic, gracious, fair-minded, social", time.September, 23, time.October, 22},
	{"Scorpio", "♏", "Water", "Resourceful, brave, passionate, stubborn, true friend", time.October, 23, time.November, 21},
	{"Sagittarius", "♐", "Fire", "Generous, idealistic, great sense of humor, enthusiastic", time.November, 22, time.December, 21},
}

// ZodiacFor returns the sign covering month/day. Out-of-range input falls
// back to Capricorn.
func ZodiacFor(month time.Month, day int) Zodiac {
	for _, z := range zodiacSigns {
		if (month == z.StartMonth && day >= z.StartDay) || (month == z.EndMonth && day <= z.EndDay) {
			return z
		}
	}
	return zodiacSigns[0]
}

// Population estimates in billions, keyed by the first year they apply to.
var populationByYear = []struct {
	year     int
	billions float64
}{
	{1950, 2.5}, {1960, 3.0}, {1970, 3.7}, {1980, 4.4}, {1990, 5.3},
	{2000, 6.1}, {2010, 6.9}, {2020, 7.8}, {2025, 8.0},
}

const (
	populationBeforeTable = 7.9 // table has no entry before 1950
	annualBirthRate       = 0.019
	daysPerAverageYear    = 365.25
)

// GlobalStanding places a birth among everyone alive at the time.
type GlobalStanding struct {
	BirthYear          int
	PopulationBillions float64

	// Rank is the approximate number of people alive when the subject was born,
	// themselves included.
	Rank int64
}

// GlobalStandingFor estimates the world population in the birth year and the
// subject's rank in it, assuming births spread evenly over the year.
func GlobalStandingFor(birth Birth) GlobalStanding {
	t := birth.Time()
	year := t.Year()

	pop := populationBeforeTable
	for _, p := range populationByYear {
		if year >= p.year {
			pop = p.billions
		}
	}

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	dayOfYear := float64(t.Sub(jan1).Milliseconds() / MillisPerDay)

	total := pop * 1e9
	dailyBirths := total * annualBirthRate / daysPerAverageYear
	rank := math.Floor(total - dailyBirths*(daysPerAverageYear-dayOfYear))

	return GlobalStanding{
		BirthYear:          year,
		PopulationBillions: pop,
		Rank:               int64(rank),
	}
}

const (
	DogYearsPerYear      = 7
	SunMillionKmPerOrbit = 584
)

// FunFacts are trivia derived from whole years of age.
type FunFacts struct {
	DogYears    int64
	SolarOrbits int64

	// SunDistanceMillionKm is the distance travelled around the sun, in millions of km.
	SunDistanceMillionKm int64
}

// FunFactsFor derives FunFacts from a snapshot.
func FunFactsFor(snap Snapshot) FunFacts {
	return FunFacts{
		DogYears:             snap.Years * DogYearsPerYear,
		SolarOrbits:          snap.Years,
		SunDistanceMillionKm: snap.Years * SunMillionKmPerOrbit,
	}
}
