package sampler

// Grade is a coarse smoothness rating derived from the rolling averages.
type Grade string

const (
	// GradeExcellent - sustained near-refresh-rate rendering
	GradeExcellent Grade = "A"
	// GradeGood - minor slowdowns, still comfortably animated
	GradeGood Grade = "B"
	// GradeFair - visible jank, animation remains usable
	GradeFair Grade = "C"
	// GradePoor - everything below fair
	GradePoor Grade = "D"
)

// Grade thresholds. A grade applies when BOTH the FPS floor and the
// frame-time ceiling hold; the first match from the top wins.
const (
	excellentMinFPS     = 55.0
	excellentMaxFrameMs = 16.0

	goodMinFPS     = 45.0
	goodMaxFrameMs = 22.0

	fairMinFPS     = 30.0
	fairMaxFrameMs = 33.0
)

// gradeFor maps rolling averages onto the grade ladder.
func gradeFor(avgFPS, avgFrameMs float64) Grade {
	switch {
	case avgFPS >= excellentMinFPS && avgFrameMs <= excellentMaxFrameMs:
		return GradeExcellent
	case avgFPS >= goodMinFPS && avgFrameMs <= goodMaxFrameMs:
		return GradeGood
	case avgFPS >= fairMinFPS && avgFrameMs <= fairMaxFrameMs:
		return GradeFair
	default:
		return GradePoor
	}
}

// Label returns the human-readable name for the grade.
func (g Grade) Label() string {
	switch g {
	case GradeExcellent:
		return "Excellent"
	case GradeGood:
		return "Good"
	case GradeFair:
		return "Fair"
	case GradePoor:
		return "Poor"
	default:
		return "Unknown"
	}
}
