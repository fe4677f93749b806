package ratefeed

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	"github.com/watchara/installment-service/internal/config"
)

// shopMargin is added on top of the published reference rate when suggesting
// an interest rate for new plans.
const shopMargin = 3.0

// Client fetches the published reference lending rate from the XML feed and
// turns it into a suggested interest rate for the plan form.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a rate feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RateFeedURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

func (c *Client) fetch() ([]byte, error) {
	if c.url == "" {
		return nil, fmt.Errorf("rate feed URL is not configured")
	}

	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Rate feed XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the most recent published rate
func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	rateElements := doc.FindElements("//RateFeed/Rate")
	if len(rateElements) == 0 {
		return 0, fmt.Errorf("no rate data found in XML")
	}

	// Entries are published newest first
	var rate float64
	if _, err := fmt.Sscanf(rateElements[0].Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %v", err)
	}
	return rate, nil
}

// GetSuggestedRate retrieves the current reference rate and adds the shop margin
func (c *Client) GetSuggestedRate() (float64, error) {
	body, err := c.fetch()
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}

	rate += shopMargin
	c.log.Infof("Retrieved reference rate: %.2f%% (including %.2f%% shop margin)", rate, shopMargin)
	return rate, nil
}
