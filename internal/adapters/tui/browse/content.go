package browse

type feature struct {
	Title       string
	Description string
}

type testimonial struct {
	Name  string
	Role  string
	Quote string
}

var features = []feature{
	{Title: "AI-Powered Formatting", Description: "Manuscripts reformatted to each journal's author guidelines."},
	{Title: "Easy Upload", Description: "Drop in a Word or LaTeX file and start from there."},
	{Title: "Multi-Journal Support", Description: "Thousands of journal templates, kept up to date."},
	{Title: "Instant Results", Description: "A submission-ready document in minutes."},
}

var testimonials = []testimonial{
	{Name: "Dr. Sarah Chen", Role: "Stanford University", Quote: "Formatting used to take me a full day per submission."},
	{Name: "Prof. Michael Rodriguez", Role: "MIT", Quote: "My students submit faster and with fewer desk rejections."},
	{Name: "Dr. Emily Johnson", Role: "Harvard Medical School", Quote: "Switching between journal styles is finally painless."},
}

// FeatureCount and TestimonialCount size the carousels started by the core.
func FeatureCount() int { return len(features) }

func TestimonialCount() int { return len(testimonials) }
