package round

import "fmt"

// Stats tracks scoring across rounds for the lifetime of the process.
type Stats struct {
	Attempts   int
	Correct    int
	Streak     int
	BestStreak int
}

// Record returns the stats after one scored answer.
func (s Stats) Record(correct bool) Stats {
	s.Attempts++
	if correct {
		s.Correct++
		s.Streak++
		if s.Streak > s.BestStreak {
			s.BestStreak = s.Streak
		}
	} else {
		s.Streak = 0
	}
	return s
}

// Incorrect returns the number of wrong answers.
func (s Stats) Incorrect() int {
	return s.Attempts - s.Correct
}

// Accuracy returns the percentage of correct answers, or 0 with no attempts.
func (s Stats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts) * 100
}

// AccuracyString formats Accuracy with one decimal place.
func (s Stats) AccuracyString() string {
	return fmt.Sprintf("%.1f%%", s.Accuracy())
}

// NextStreakMilestone returns the next streak milestone above current.
func NextStreakMilestone(current int) int {
	for _, t := range []int{5, 10, 15, 20} {
		if t > current {
			return t
		}
	}
	// Beyond 20, every 5.
	return ((current / 5) + 1) * 5
}

// IsStreakMilestone reports whether streak lands exactly on a milestone.
func IsStreakMilestone(streak int) bool {
	return streak > 0 && streak%5 == 0
}
