package domain

import "time"

// Countdown is the display breakdown of a pool's time window at one instant.
// Active holds exactly while start <= now < end; Percentage is elapsed time
// over total duration, clamped to [0, 100].
type Countdown struct {
	Days       int
	Hours      int
	Minutes    int
	Seconds    int
	Percentage float64
	Active     bool
}

func ComputeCountdown(now, start, end time.Time) Countdown {
	switch {
	case now.Before(start):
		cd := splitDuration(start.Sub(now))
		cd.Percentage = 0
		cd.Active = false
		return cd
	case now.Before(end):
		cd := splitDuration(end.Sub(now))
		total := end.Sub(start)
		if total > 0 {
			cd.Percentage = clampPercent(float64(now.Sub(start)) / float64(total) * 100)
		} else {
			cd.Percentage = 100
		}
		cd.Active = true
		return cd
	default:
		return Countdown{Percentage: 100}
	}
}

// Phase labels the countdown for display.
func (c Countdown) Phase() string {
	switch {
	case c.Active:
		return "Active"
	case c.Percentage >= 100:
		return "Ended"
	default:
		return "Not Started"
	}
}

func splitDuration(d time.Duration) Countdown {
	if d < 0 {
		d = 0
	}
	seconds := int(d / time.Second)
	return Countdown{
		Days:    seconds / 86400,
		Hours:   seconds % 86400 / 3600,
		Minutes: seconds % 3600 / 60,
		Seconds: seconds % 60,
	}
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
