package extraction

import (
	"regexp"

	"jobtrack-backend/internal/application/domain"
)

// The tables below are evaluated strictly in order, first match wins.
// Order is a tuned priority, not alphabetical; do not re-sort.

// genericSenderMarkers disqualify a display name parsed from the From
// header. Matching is case-insensitive substring.
var genericSenderMarkers = []string{
	"noreply",
	"no-reply",
	"do-not-reply",
	"donotreply",
	"support",
	"admin",
	"system",
	"notification",
	"mailer",
}

// companyPatterns scan subject+body for a company name when the display
// name path fails.
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfrom:\s*([A-Z][A-Za-z0-9&.' -]{1,40}?)(?:[,.\n<]|$)`),
	regexp.MustCompile(`(?i)\bon behalf of\s+([A-Z][A-Za-z0-9&.' -]{1,40}?)(?:[,.\n]|$)`),
	regexp.MustCompile(`\bat\s+([A-Z][A-Za-z0-9&.'-]*(?:\s+[A-Z&][A-Za-z0-9&.'-]*)*\s+(?:Inc|LLC|Ltd|Corp|Corporation|Co|GmbH))\b`),
	regexp.MustCompile(`(?i)\bfrom(?:\s+the)?\s+([A-Z][A-Za-z0-9&.'-]*(?:\s+[A-Z&][A-Za-z0-9&.'-]*)*)\s+team\b`),
}

// rolePatterns scan subject+body for the role being applied to.
var rolePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:position|role|job)\s+(?:of|for|as)[:\s]+"?([A-Za-z][A-Za-z0-9/+#& -]{2,60}?)"?(?:\s+(?:at|with)\b|[,.\n("]|$)`),
	regexp.MustCompile(`(?i)\bapplying (?:for|to)(?:\s+the)?\s+"?([A-Za-z][A-Za-z0-9/+#& -]{2,60}?)"?(?:\s+(?:position|role|opening|at)\b|[,.\n("]|$)`),
	regexp.MustCompile(`(?i)\byour application (?:for|to)(?:\s+the)?\s+"?([A-Za-z][A-Za-z0-9/+#& -]{2,60}?)"?(?:\s+(?:position|role|opening|at)\b|[,.\n("]|$)`),
	regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z0-9/+#& -]{2,60}?)\s+position\b`),
	regexp.MustCompile(`(?i)\binterview for(?:\s+the)?\s+"?([A-Za-z][A-Za-z0-9/+#& -]{2,60}?)"?(?:\s+(?:position|role|at)\b|[,.\n("]|$)`),
}

// commonJobTitles is the substring fallback when no role pattern matched.
var commonJobTitles = []string{
	"Senior Software Engineer",
	"Software Engineer",
	"Software Developer",
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Developer",
	"Machine Learning Engineer",
	"Data Scientist",
	"Data Analyst",
	"Data Engineer",
	"DevOps Engineer",
	"Site Reliability Engineer",
	"QA Engineer",
	"Product Manager",
	"Project Manager",
	"Engineering Manager",
	"Business Analyst",
	"Mobile Developer",
	"UX Designer",
	"UI Designer",
	"Intern",
}

// platformRule maps a platform name to its detection markers (domains or
// "from/via" mentions), tested against subject+body+sender.
type platformRule struct {
	name    string
	markers []string
}

// platformRules iteration order decides ties, e.g. a LinkedIn digest that
// links out to Greenhouse still counts as LinkedIn.
var platformRules = []platformRule{
	{"LinkedIn", []string{"linkedin.com", "via linkedin", "from linkedin"}},
	{"Indeed", []string{"indeed.com", "via indeed", "from indeed"}},
	{"Glassdoor", []string{"glassdoor.com", "via glassdoor"}},
	{"ZipRecruiter", []string{"ziprecruiter.com", "via ziprecruiter"}},
	{"Monster", []string{"monster.com", "via monster"}},
	{"Wellfound", []string{"wellfound.com", "angel.co", "via wellfound"}},
	{"Greenhouse", []string{"greenhouse.io", "via greenhouse"}},
	{"Lever", []string{"lever.co", "via lever"}},
	{"Workday", []string{"myworkdayjobs.com", "workday.com", "via workday"}},
	{"Dice", []string{"dice.com", "via dice"}},
}

// statusRule is one keyword category. Category order matters: rejection
// phrasing must win over the word "interview" inside a rejection email.
type statusRule struct {
	status   domain.Status
	keywords []string
}

var statusRules = []statusRule{
	{domain.StatusRejected, []string{
		"unfortunately",
		"regret to inform",
		"not to move forward",
		"decided to move forward with other",
		"not been selected",
		"pursue other candidates",
		"no longer under consideration",
		"position has been filled",
		"will not be moving forward",
	}},
	{domain.StatusOffer, []string{
		"pleased to offer",
		"offer of employment",
		"offer letter",
		"job offer",
		"extend an offer",
		"congratulations",
	}},
	{domain.StatusInterview, []string{
		"interview",
		"phone screen",
		"technical screen",
		"schedule a call",
		"next round",
		"meet the team",
		"your availability",
	}},
	{domain.StatusApplied, []string{
		"application received",
		"thank you for applying",
		"received your application",
		"application has been submitted",
		"successfully applied",
		"application confirmation",
		"application was sent",
	}},
}

// monthNames maps English month prefixes to their number for date parsing.
var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// datePatterns: numeric D/M/Y, "D Mon Y", "Mon D, Y". First pattern that
// yields a parseable, non-future date wins.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+(\d{4})\b`),
	regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
}
