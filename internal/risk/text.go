package risk

// Shared wording for every surface.
const (
	Tagline = "Interactive diabetes risk estimator (BRFSS-based), educational use only"

	Disclaimer = "This calculator uses a logistic model trained on BRFSS survey features. " +
		"It is for educational purposes and is not a medical diagnosis."

	ThresholdHint = "Lower = more sensitive. Higher = more specific."
)

// HowItWorks lists the explanatory notes shown on the about screen and page.
var HowItWorks = []string{
	"We use 7 key inputs (BMI, blood pressure/cholesterol flags, physical activity, general health, age, sex).",
	"A logistic model returns a probability; anything at or above your chosen threshold is labeled At Risk.",
	"Tune the threshold to prioritize sensitivity vs. specificity.",
	"The risk band (Low, Moderate, High, Very High) depends on the probability only, not on the threshold.",
}

// Pill colors for the two labels.
const (
	ColorNotAtRisk = "#10b981"
	ColorAtRisk    = "#ef4444"
)

// Color returns the pill background for the label.
func (l Label) Color() string {
	if l == LabelAtRisk {
		return ColorAtRisk
	}
	return ColorNotAtRisk
}
