package scoring

import "complexity-quiz-service/internal/domain"

// Option tokens with dedicated scoring or recommendation rules. Any other token
// is treated as an "other" value and falls back to its recorded weight.
const (
	ProjectWebsite    = "website"
	ProjectWebApp     = "webapp"
	ProjectEcommerce  = "ecommerce"
	ProjectSaaS       = "saas"
	ProjectEnterprise = "enterprise"

	TimelineASAP        = "asap"
	TimelineThreeMonths = "3-months"
	TimelineFlexible    = "flexible"

	ReadinessIdea     = "idea"
	ReadinessDesigned = "designed"

	TeamSoloFast    = "solo-fast"
	TeamSoloQuality = "solo-quality"
	TeamSmall       = "small-team"
	TeamNotSure     = "not-sure"
)

const (
	customProjectLabel = "Custom Project"
	defaultTimeline    = "flexible"
	defaultApproach    = "We'll start with a short discovery call to understand your goals, then recommend the team setup and delivery approach that fits your project best."
)

var projectLabels = map[string]string{
	ProjectWebsite:    "Website/Landing Page",
	ProjectWebApp:     "Web Application",
	ProjectEcommerce:  "E-commerce Platform",
	ProjectSaaS:       "SaaS Platform",
	ProjectEnterprise: "Enterprise System",
}

// weekRange is an estimate in weeks.
type weekRange struct {
	min int
	max int
}

var defaultRange = weekRange{min: 4, max: 8}

var baseTimelines = map[string]weekRange{
	ProjectWebsite:    {min: 2, max: 4},
	ProjectWebApp:     {min: 6, max: 12},
	ProjectEcommerce:  {min: 8, max: 16},
	ProjectSaaS:       {min: 12, max: 24},
	ProjectEnterprise: {min: 16, max: 32},
}

var approaches = map[string]string{
	TeamSoloFast:    "Rapid solo delivery: a single senior developer ships in short iterations with weekly demos, prioritizing speed to market over extensive polish.",
	TeamSoloQuality: "Quality-first solo delivery: a senior developer owns architecture, testing and code review end to end, trading some speed for long-term maintainability.",
	TeamSmall:       "Small dedicated team: a lead developer plus specialists for design and QA work in parallel sprints, balancing speed and quality for larger scopes.",
	TeamNotSure:     "Guided discovery: we'll begin with a scoping workshop to map requirements and constraints, then recommend the team structure that fits your budget and timeline.",
}

type tierSteps struct {
	minScore int
	tier     domain.Tier
	steps    domain.NextSteps
}

// tiers is ordered from the highest threshold down.
var tiers = []tierSteps{
	{
		minScore: 85,
		tier:     domain.TierExcellentFit,
		steps: domain.NextSteps{
			Title: "Excellent Fit - Let's Get Started!",
			Steps: []string{
				"Book a free 30-minute strategy call this week",
				"Receive a detailed project quote within 48 hours",
				"Review the proposed architecture and milestone plan",
				"Kick off development within two weeks",
			},
		},
	},
	{
		minScore: 70,
		tier:     domain.TierGoodFit,
		steps: domain.NextSteps{
			Title: "Good Fit - Let's Refine the Details",
			Steps: []string{
				"Schedule a discovery call to clarify requirements",
				"Share any existing documents, designs or references",
				"Receive a scoped proposal with timeline options",
				"Agree on a first milestone and start date",
			},
		},
	},
	{
		minScore: 50,
		tier:     domain.TierPotentialFit,
		steps: domain.NextSteps{
			Title: "Potential Fit - Let's Explore Together",
			Steps: []string{
				"Book a free consultation to discuss your goals",
				"Identify the must-have features for a first release",
				"Explore phased delivery options to reduce risk",
				"Decide together whether to move forward",
			},
		},
	},
	{
		minScore: 0,
		tier:     domain.TierConsultation,
		steps: domain.NextSteps{
			Title: "Consultation Recommended",
			Steps: []string{
				"Book a free no-obligation consultation",
				"Talk through your idea, constraints and budget",
				"Get honest advice on the best path forward",
				"Receive a list of recommended resources and next actions",
			},
		},
	},
}
