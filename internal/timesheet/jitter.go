package timesheet

import (
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
	"github.com/username/timesheet-gen/pkg/random"
)

// JitterRules holds the calibrated bounds of the jitter engine. All values are minutes.
type JitterRules struct {
	OnTimeProbability  float64 // share of arrivals inside the tolerance window
	ToleranceMaxDelay  int     // on-time arrivals: delay in [0, ToleranceMaxDelay]
	LateMinDelay       int     // late arrivals: delay in [LateMinDelay, LateMaxDelay]
	LateMaxDelay       int
	MorningExitMin     int // offset from the base morning exit
	MorningExitMax     int
	MinMorningMinutes  int // morning block is clamped to at least this
	LunchMin           int
	LunchMax           int
	DailyTargetMinutes int
	TargetVariance     int // target drawn from DailyTargetMinutes ± TargetVariance
}

// DefaultJitterRules returns the calibrated defaults
func DefaultJitterRules() JitterRules {
	return JitterRules{
		OnTimeProbability:  0.7,
		ToleranceMaxDelay:  10,
		LateMinDelay:       11,
		LateMaxDelay:       17,
		MorningExitMin:     -5,
		MorningExitMax:     15,
		MinMorningMinutes:  90,
		LunchMin:           50,
		LunchMax:           70,
		DailyTargetMinutes: 480,
		TargetVariance:     5,
	}
}

// MinTargetMinutes is the smallest daily total the engine can aim for
func (r JitterRules) MinTargetMinutes() int {
	return r.DailyTargetMinutes - r.TargetVariance
}

// MaxEntryDelay is the latest the morning entry can drift past the base
func (r JitterRules) MaxEntryDelay() int {
	if r.LateMaxDelay > r.ToleranceMaxDelay {
		return r.LateMaxDelay
	}
	return r.ToleranceMaxDelay
}

// LatestExitMinutes is the latest afternoon exit, in minutes after midnight, the engine can produce for s.
// Both blocks add up to the target, so the day spans entry + target + lunch.
func (r JitterRules) LatestExitMinutes(s WorkSchedule) int {
	return s.MorningEntry.Minutes() + r.MaxEntryDelay() + r.DailyTargetMinutes + r.TargetVariance + r.LunchMax
}

// MaxMorningMinutes is the longest morning block the engine can produce for s.
// Entry delays are never negative, so the earliest entry is the base one.
func (r JitterRules) MaxMorningMinutes(s WorkSchedule) int {
	worst := s.MorningExit.Minutes() + r.MorningExitMax - s.MorningEntry.Minutes()
	if worst < r.MinMorningMinutes {
		// Clamp forces exit to entry + MinMorningMinutes
		return r.MinMorningMinutes
	}
	return worst
}

// DayTimes is one jittered instance of a schedule on a concrete day
type DayTimes struct {
	MorningEntry   time.Time
	MorningExit    time.Time
	AfternoonEntry time.Time
	AfternoonExit  time.Time
}

// Worked returns the sum of both work blocks
func (d DayTimes) Worked() time.Duration {
	return d.MorningExit.Sub(d.MorningEntry) + d.AfternoonExit.Sub(d.AfternoonEntry)
}

// JitterEngine turns a base schedule into a plausible, distinct working day
type JitterEngine struct {
	rules JitterRules
	rnd   random.Source
}

// NewJitterEngine creates an engine drawing from rnd
func NewJitterEngine(rules JitterRules, rnd random.Source) *JitterEngine {
	return &JitterEngine{
		rules: rules,
		rnd:   rnd,
	}
}

// Rules returns the engine's bounds
func (e *JitterEngine) Rules() JitterRules {
	return e.rules
}

// Generate produces the four timestamps for day based on base.
// The afternoon block absorbs whatever the morning did so the day totals the target.
func (e *JitterEngine) Generate(base WorkSchedule, day time.Time) DayTimes {
	r := e.rules

	// 1. Morning entry: mostly inside the tolerance window, sometimes late
	var delay int
	if random.Chance(e.rnd, r.OnTimeProbability) {
		delay = random.Between(e.rnd, 0, r.ToleranceMaxDelay)
	} else {
		delay = random.Between(e.rnd, r.LateMinDelay, r.LateMaxDelay)
	}
	morningEntry := dateutil.At(day, base.MorningEntry.Hour, base.MorningEntry.Minute+delay)

	// 2. Morning exit around the base, never shorter than the minimum block
	offset := random.Between(e.rnd, r.MorningExitMin, r.MorningExitMax)
	morningExit := dateutil.At(day, base.MorningExit.Hour, base.MorningExit.Minute+offset)
	if minExit := morningEntry.Add(time.Duration(r.MinMorningMinutes) * time.Minute); morningExit.Before(minExit) {
		morningExit = minExit
	}

	// 3. Lunch starts at the actual morning exit
	afternoonEntry := morningExit.Add(random.BetweenDuration(e.rnd, r.LunchMin, r.LunchMax))

	// 4. Afternoon fills the remainder of the daily target
	morningMinutes := int(morningExit.Sub(morningEntry) / time.Minute)
	target := r.DailyTargetMinutes + random.Between(e.rnd, -r.TargetVariance, r.TargetVariance)
	afternoonMinutes := target - morningMinutes
	afternoonExit := afternoonEntry.Add(time.Duration(afternoonMinutes) * time.Minute)

	return DayTimes{
		MorningEntry:   morningEntry,
		MorningExit:    morningExit,
		AfternoonEntry: afternoonEntry,
		AfternoonExit:  afternoonExit,
	}
}
