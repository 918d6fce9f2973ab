package domain

// DefaultCatalogID identifies the compiled-in question set.
const DefaultCatalogID = "default"

// DefaultCatalog returns the built-in project complexity questions.
func DefaultCatalog() Catalog {
	return Catalog{
		ID: DefaultCatalogID,
		Questions: []Question{
			{
				ID:       CategoryProjectType,
				Position: 1,
				Prompt:   "What are you looking to build?",
				Options: []Option{
					{ID: "website", Label: "Website or landing page", Weight: 20},
					{ID: "webapp", Label: "Web application", Weight: 30},
					{ID: "ecommerce", Label: "E-commerce store", Weight: 30},
					{ID: "saas", Label: "SaaS product", Weight: 35},
					{ID: "enterprise", Label: "Enterprise system", Weight: 25},
				},
			},
			{
				ID:       CategoryTimeline,
				Position: 2,
				Prompt:   "When do you need it live?",
				Options: []Option{
					{ID: "asap", Label: "As soon as possible", Weight: 25},
					{ID: "1-month", Label: "Within a month", Weight: 25},
					{ID: "3-months", Label: "In about three months", Weight: 35},
					{ID: "6-months", Label: "Within six months", Weight: 30},
					{ID: "flexible", Label: "The timeline is flexible", Weight: 35},
				},
			},
			{
				ID:       CategoryReadiness,
				Position: 3,
				Prompt:   "How far along is the project?",
				Options: []Option{
					{ID: "idea", Label: "Just an idea", Weight: 10},
					{ID: "requirements", Label: "Requirements are written down", Weight: 25},
					{ID: "designed", Label: "Designs are ready", Weight: 35},
					{ID: "existing", Label: "Improving an existing product", Weight: 30},
				},
			},
			{
				ID:       CategoryTeamType,
				Position: 4,
				Prompt:   "What kind of team are you looking for?",
				Options: []Option{
					{ID: "solo-fast", Label: "A solo developer who moves fast", Weight: 20},
					{ID: "solo-quality", Label: "A senior solo developer focused on quality", Weight: 30},
					{ID: "small-team", Label: "A small dedicated team", Weight: 35},
					{ID: "not-sure", Label: "Not sure yet", Weight: 10},
				},
			},
			{
				ID:       CategoryGoal,
				Position: 5,
				Prompt:   "What matters most right now?",
				Options: []Option{
					{ID: "launch-mvp", Label: "Launching an MVP", Weight: 30},
					{ID: "scale", Label: "Scaling what already works", Weight: 35},
					{ID: "modernize", Label: "Modernizing legacy software", Weight: 25},
					{ID: "explore", Label: "Exploring options", Weight: 15},
				},
			},
		},
	}
}
