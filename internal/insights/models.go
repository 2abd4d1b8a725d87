package insights

// VisualizationInsight is the validated result of a visualization
// description request: a single descriptive paragraph covering
// chart-worthy patterns in the data.
type VisualizationInsight struct {
	Descriptions string `json:"visualization_descriptions"`
}

// DateRange is one suggested analysis window with its rationale. Dates
// are kept as the strings the model produced; the presentation layer
// decides how to interpret them.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// Bundle collects the results of both insight requests. The two halves
// resolve independently: either may carry a result while the other
// carries an error, and neither is required for primary functionality.
type Bundle struct {
	Visualizations    *VisualizationInsight
	VisualizationsErr error

	DateRanges    []DateRange
	DateRangesErr error
}
