package domain

import "time"

// JobStatus enumerates coloring job lifecycle states as reported to clients.
type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusRunning   JobStatus = "Running"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusFailed    JobStatus = "Failed"
)

// Terminal reports whether no further progress updates will follow.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ProgressCompleted is the percentage written for every finished job,
// successful or not.
const ProgressCompleted = 100

// ColoringJob encapsulates the lifecycle of a single coloring request.
type ColoringJob struct {
	ID           string
	UlosType     string
	MotifID      string
	ColorCodes   []string
	Status       JobStatus
	Progress     int
	ResultJSON   []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ExpiresAt    time.Time
}

// UsedColor is a thread color that ended up in a colored image.
type UsedColor struct {
	Code     string `json:"code"`
	HexColor string `json:"hex_color"`
}

// SchemeAnalysis summarizes the color scheme formed by the used colors.
type SchemeAnalysis struct {
	SchemeType        string  `json:"scheme_type"`
	Description       string  `json:"description"`
	HueRange          float64 `json:"hue_range"`
	ColorHarmonyScore float64 `json:"color_harmony_score"`
	AchromaticCount   int     `json:"achromatic_count"`
	ChromaticCount    int     `json:"chromatic_count"`
}

// UsageRecommendations describes how the scheme should be distributed over
// the cloth.
type UsageRecommendations struct {
	HarmonyLevel   string `json:"harmony_level"`
	PrimaryRatio   string `json:"primary_ratio"`
	SecondaryRatio string `json:"secondary_ratio"`
	AccentRatio    string `json:"accent_ratio"`
}

// OptimizationScores are the objective values of the chosen individual.
type OptimizationScores struct {
	MichaelsonContrast  float64 `json:"michaelson_contrast"`
	RMSContrast         float64 `json:"rms_contrast"`
	Colorfulness        float64 `json:"colorfulness"`
	OptimalUniqueColors float64 `json:"optimal_unique_colors"`
	UserPreferenceMatch float64 `json:"user_preference_match"`
}

// ColoringResult is persisted as the job result and merged into progress
// responses once the job completes.
type ColoringResult struct {
	ColoredImageURL      string               `json:"colored_image_url"`
	UsedColors           []UsedColor          `json:"used_colors"`
	UniqueUsedColorCodes []string             `json:"unique_used_color_codes"`
	ColorSchemeAnalysis  SchemeAnalysis       `json:"color_scheme_analysis"`
	UsageRecommendations UsageRecommendations `json:"usage_recommendations"`
	OptimizationScores   OptimizationScores   `json:"optimization_scores"`
}

// JobProgress is the payload of the progress endpoint.
type JobProgress struct {
	Progress             int                   `json:"progress"`
	Status               JobStatus             `json:"status"`
	ColoredImageURL      string                `json:"colored_image_url,omitempty"`
	UsedColors           []UsedColor           `json:"used_colors,omitempty"`
	Error                string                `json:"error,omitempty"`
	ColorSchemeAnalysis  *SchemeAnalysis       `json:"color_scheme_analysis,omitempty"`
	UsageRecommendations *UsageRecommendations `json:"usage_recommendations,omitempty"`
	OptimizationScores   *OptimizationScores   `json:"optimization_scores,omitempty"`
}
