package tracker

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// Public tracking page URL templates by carrier code. The tracking number is
// substituted for %s.
var trackingURLTemplates = map[string]string{
	"ECOSP": "https://track.ecoship.example.com/shipments/%s",
	"GRFRT": "https://www.greenfreight.example.com/track?number=%s",
	"SUSSH": "https://sustainship.example.com/tracking/%s",
	"OCGRN": "https://oceangreen.example.com/trace/%s",
}

// Client fetches carrier tracking pages and extracts scan events
type Client struct {
	httpClient *http.Client
	parser     *Parser
	health     *HealthMonitor
	log        logger.Logger
	userAgent  string
}

// NewClient creates a new tracking client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		parser:    NewParser(),
		health:    NewHealthMonitor(),
		log:       log,
		userAgent: "Mozilla/5.0 (compatible; GreenChainz-Tracker/1.0)",
	}
}

// FetchEvents pulls the carrier's public tracking page for a shipment and
// parses its scan events
func (c *Client) FetchEvents(carrier models.CarrierInfo) ([]models.ShipmentEvent, error) {
	url := c.trackingURL(carrier)
	if url == "" {
		return nil, fmt.Errorf("no tracking URL for carrier %q", carrier.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
	defer cancel()

	doc, err := c.get(ctx, url)
	if err != nil {
		c.health.RecordFailure(carrier.Code, err.Error(), url)
		return nil, err
	}

	events := c.parser.ParseTrackingPage(doc, carrier.Name)
	c.health.RecordSuccess(carrier.Code)

	c.log.Debug("Fetched tracking page",
		"carrier", carrier.Code,
		"tracking_number", carrier.TrackingNumber,
		"events", len(events),
	)
	return events, nil
}

// Health returns the per-carrier health snapshot
func (c *Client) Health() map[string]CarrierHealth {
	return c.health.Snapshot()
}

// IsHealthy reports whether a carrier's tracking page is below the
// consecutive failure threshold
func (c *Client) IsHealthy(carrierCode string) bool {
	return c.health.IsHealthy(strings.ToUpper(carrierCode))
}

func (c *Client) trackingURL(carrier models.CarrierInfo) string {
	if carrier.TrackingURL != "" {
		return carrier.TrackingURL
	}
	template, ok := trackingURLTemplates[strings.ToUpper(carrier.Code)]
	if !ok || carrier.TrackingNumber == "" {
		return ""
	}
	return fmt.Sprintf(template, carrier.TrackingNumber)
}

func (c *Client) get(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Close cleans up the client resources
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
