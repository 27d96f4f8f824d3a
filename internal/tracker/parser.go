package tracker

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// Parser extracts scan events from carrier tracking pages. Carrier markup
// varies, so it tries structured selectors first and falls back to pattern
// matching over row text.
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Selectors carriers commonly use for their event tables
var eventRowSelectors = []string{
	"[data-testid*='tracking-event']",
	".tracking-event",
	".scan-event",
	"[class*='event-row']",
	"table.tracking-history tr",
	"table[class*='history'] tr",
	"ul.tracking-timeline li",
}

// Keyword order matters: more specific phrases first
var statusKeywords = []struct {
	keyword string
	status  string
}{
	{"out for delivery", "out_for_delivery"},
	{"delivered", "delivered"},
	{"returned", "returned"},
	{"exception", "exception"},
	{"delay", "exception"},
	{"held", "exception"},
	{"picked up", "picked_up"},
	{"pickup", "picked_up"},
	{"in transit", "in_transit"},
	{"departed", "in_transit"},
	{"arrived", "in_transit"},
}

// ParseTrackingPage extracts scan events from a tracking page, oldest first
func (p *Parser) ParseTrackingPage(doc *goquery.Document, carrierName string) []models.ShipmentEvent {
	var events []models.ShipmentEvent
	seen := make(map[string]bool)

	for _, selector := range eventRowSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			event, ok := p.parseEventRow(s, carrierName)
			if !ok {
				return
			}
			key := event.Timestamp.Format(time.RFC3339) + "|" + event.Status + "|" + event.Location
			if seen[key] {
				return
			}
			seen[key] = true
			events = append(events, event)
		})
		if len(events) > 0 {
			break
		}
	}

	// Oldest first so appending to a shipment's event log keeps order
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events
}

// parseEventRow extracts one event from a row-like element. A row without a
// parseable timestamp is skipped.
func (p *Parser) parseEventRow(s *goquery.Selection, carrierName string) (models.ShipmentEvent, bool) {
	text := strings.TrimSpace(s.Text())
	if text == "" || len(text) > 500 {
		return models.ShipmentEvent{}, false
	}

	timestamp := p.extractTimestamp(s, text)
	if timestamp == nil {
		return models.ShipmentEvent{}, false
	}

	status := p.classifyStatus(text)
	if status == "" {
		return models.ShipmentEvent{}, false
	}

	return models.ShipmentEvent{
		Timestamp:   *timestamp,
		Status:      status,
		Location:    p.extractLocation(s, text),
		Description: p.extractDescription(s, text),
		Carrier:     carrierName,
	}, true
}

func (p *Parser) extractTimestamp(s *goquery.Selection, text string) *time.Time {
	// Machine-readable timestamps first
	if dt, ok := s.Find("time").Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			return &t
		}
	}
	for _, attr := range []string{"data-timestamp", "data-date"} {
		if dt, ok := s.Attr(attr); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				return &t
			}
		}
	}
	return p.parseDate(text)
}

var datePattern = regexp.MustCompile(`[0-9]{4}-[0-9]{2}-[0-9]{2}[T ][0-9]{2}:[0-9]{2}(:[0-9]{2})?|[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}\s+[0-9]{1,2}:[0-9]{2}\s*(AM|PM)?|[A-Za-z]{3}\s+[0-9]{1,2},\s+[0-9]{4}\s+[0-9]{1,2}:[0-9]{2}\s*(AM|PM)?`)

var dateFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
}

func (p *Parser) parseDate(text string) *time.Time {
	match := datePattern.FindString(text)
	if match == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, match); err == nil {
			return &t
		}
	}
	return nil
}

func (p *Parser) classifyStatus(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range statusKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.status
		}
	}
	return ""
}

var locationPattern = regexp.MustCompile(`(?i)(?:at|in)\s+([A-Z][A-Za-z .]+,\s*[A-Z]{2})`)

func (p *Parser) extractLocation(s *goquery.Selection, text string) string {
	for _, selector := range []string{".location", "[class*='location']", "td.city"} {
		if loc := strings.TrimSpace(s.Find(selector).First().Text()); loc != "" {
			return loc
		}
	}
	if matches := locationPattern.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

func (p *Parser) extractDescription(s *goquery.Selection, text string) string {
	for _, selector := range []string{".description", "[class*='description']", "[class*='detail']"} {
		if desc := strings.TrimSpace(s.Find(selector).First().Text()); desc != "" {
			return desc
		}
	}
	// Collapse the row text into one line
	fields := strings.Fields(text)
	desc := strings.Join(fields, " ")
	if len(desc) > 200 {
		desc = desc[:200]
	}
	return desc
}
