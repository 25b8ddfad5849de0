package extraction

import (
	"strings"
	"time"

	"jobtrack-backend/internal/application/domain"
)

// Extractor derives application facts from an email with deterministic
// pattern matching only. It is pure computation: no I/O, no suspension.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract produces a fully-defaulted fact for one message. IsJobRelated
// stays nil and Confidence stays nil: pattern matching carries no
// classifier evidence.
func (e *Extractor) Extract(msg *domain.EmailMessage) *domain.ApplicationFact {
	text := msg.Subject + "\n" + msg.Body

	return &domain.ApplicationFact{
		Company:          e.extractCompany(msg.From, text),
		Role:             e.extractRole(text),
		Status:           e.extractStatus(text),
		Platform:         e.extractPlatform(text + "\n" + msg.From),
		ApplicationDate:  e.extractDate(msg.Body, msg.ReceivedAt),
		LastResponseDate: msg.ReceivedAt,
		SourceLink:       msg.Link,
	}
}

// extractCompany: display name first, then text patterns, then the sender's
// domain label, then the Unknown sentinel.
func (e *Extractor) extractCompany(from, text string) string {
	if name := displayName(from); name != "" && !isGenericSender(name) {
		return name
	}

	for _, re := range companyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if company := strings.TrimSpace(m[1]); company != "" {
				return company
			}
		}
	}

	if company := companyFromDomain(senderAddress(from)); company != "" {
		return company
	}

	return domain.CompanyUnknown
}

func (e *Extractor) extractRole(text string) string {
	for _, re := range rolePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if role := strings.TrimSpace(m[1]); role != "" {
				return role
			}
		}
	}

	lower := strings.ToLower(text)
	for _, title := range commonJobTitles {
		if strings.Contains(lower, strings.ToLower(title)) {
			return title
		}
	}

	return domain.RoleNotSpecified
}

func (e *Extractor) extractStatus(text string) domain.Status {
	lower := strings.ToLower(text)
	for _, rule := range statusRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.status
			}
		}
	}
	return domain.StatusApplied
}

func (e *Extractor) extractPlatform(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range platformRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.name
			}
		}
	}
	return domain.PlatformDirect
}

// extractDate returns the first parseable date found in the body that is not
// after receivedAt, falling back to receivedAt itself.
func (e *Extractor) extractDate(body string, receivedAt time.Time) *time.Time {
	for i, re := range datePatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			var parsed *time.Time
			switch i {
			case 0:
				parsed = parseNumericDate(m[1], m[2], m[3])
			case 1:
				parsed = parseDayMonthYear(m[1], m[2], m[3])
			case 2:
				parsed = parseDayMonthYear(m[2], m[1], m[3])
			}
			if parsed != nil && !parsed.After(receivedAt) {
				return parsed
			}
		}
	}
	fallback := receivedAt
	return &fallback
}

// HasDecisiveSignal reports whether the text already carries a
// status-changing keyword (rejection, offer, interview). Used to prioritize
// such messages on the work queue.
func HasDecisiveSignal(text string) bool {
	lower := strings.ToLower(text)
	for _, rule := range statusRules {
		if rule.status == domain.StatusApplied {
			continue
		}
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

// Helper functions

// displayName parses the "Name <addr>" form of a From header.
func displayName(from string) string {
	idx := strings.Index(from, "<")
	if idx <= 0 {
		return ""
	}
	name := strings.TrimSpace(from[:idx])
	name = strings.Trim(name, `"'`)
	if strings.Contains(name, "@") {
		return ""
	}
	return name
}

func senderAddress(from string) string {
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return from[start+1 : start+end]
		}
	}
	return strings.TrimSpace(from)
}

func isGenericSender(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range genericSenderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// companyFromDomain title-cases the registrable label of the sender's
// domain: "mail.acme-corp.com" becomes "Acme Corp".
func companyFromDomain(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	host := strings.ToLower(addr[at+1:])

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}
	label := labels[len(labels)-2]
	if label == "" {
		return ""
	}

	segments := strings.FieldsFunc(label, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		segments[i] = strings.ToUpper(seg[:1]) + seg[1:]
	}
	return strings.Join(segments, " ")
}

func parseNumericDate(dayStr, monthStr, yearStr string) *time.Time {
	day := atoi(dayStr)
	month := atoi(monthStr)
	year := atoi(yearStr)
	if year < 100 {
		year += 2000
	}
	// The numeric pattern is day-first; swap when that reading is impossible
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	return makeDate(year, month, day)
}

func parseDayMonthYear(dayStr, monthStr, yearStr string) *time.Time {
	month, ok := monthNames[strings.ToLower(monthStr)[:3]]
	if !ok {
		return nil
	}
	return makeDate(atoi(yearStr), month, atoi(dayStr))
}

func makeDate(year, month, day int) *time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1990 || year > 2100 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// Day overflowed the month, e.g. 31/02
		return nil
	}
	return &t
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
