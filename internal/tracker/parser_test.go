package tracker

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}
	return doc
}

func TestParseTrackingPageTable(t *testing.T) {
	html := `
	<html><body>
	<table class="tracking-history">
		<tr><td>2026-03-05 14:30</td><td>Delivered</td><td class="location">Portland, OR</td></tr>
		<tr><td>2026-03-04 08:15</td><td>Out for delivery</td><td class="location">Portland, OR</td></tr>
		<tr><td>2026-03-02 19:40</td><td>Departed facility</td><td class="location">Reno, NV</td></tr>
	</table>
	</body></html>`

	parser := NewParser()
	events := parser.ParseTrackingPage(docFromHTML(t, html), "EcoShip")

	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}

	// Oldest first
	if events[0].Status != "in_transit" {
		t.Errorf("First event status = %s, want in_transit", events[0].Status)
	}
	if events[2].Status != "delivered" {
		t.Errorf("Last event status = %s, want delivered", events[2].Status)
	}
	if !events[0].Timestamp.Before(events[2].Timestamp) {
		t.Error("Expected events ordered oldest first")
	}
	if events[0].Location != "Reno, NV" {
		t.Errorf("Location = %q, want Reno, NV", events[0].Location)
	}
	for _, e := range events {
		if e.Carrier != "EcoShip" {
			t.Errorf("Carrier = %q, want EcoShip", e.Carrier)
		}
	}
}

func TestParseTrackingPageSkipsRowsWithoutDates(t *testing.T) {
	html := `
	<html><body>
	<table class="tracking-history">
		<tr><th>Date</th><th>Status</th></tr>
		<tr><td>2026-03-01 10:00</td><td>Picked up</td></tr>
	</table>
	</body></html>`

	parser := NewParser()
	events := parser.ParseTrackingPage(docFromHTML(t, html), "GreenFreight")

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Status != "picked_up" {
		t.Errorf("Status = %s, want picked_up", events[0].Status)
	}
}

func TestParseTrackingPageMachineReadableTimestamps(t *testing.T) {
	html := `
	<html><body>
	<ul class="tracking-timeline">
		<li><time datetime="2026-03-03T09:00:00Z"></time> Shipment delayed, held at customs</li>
	</ul>
	</body></html>`

	parser := NewParser()
	events := parser.ParseTrackingPage(docFromHTML(t, html), "OceanGreen")

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Status != "exception" {
		t.Errorf("Status = %s, want exception", events[0].Status)
	}
	if events[0].Timestamp.Hour() != 9 {
		t.Errorf("Timestamp hour = %d, want 9", events[0].Timestamp.Hour())
	}
}

func TestParseTrackingPageEmpty(t *testing.T) {
	parser := NewParser()
	events := parser.ParseTrackingPage(docFromHTML(t, "<html><body><p>No results</p></body></html>"), "EcoShip")

	if len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
}
