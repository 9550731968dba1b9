package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/eco-market/internal/config"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

//go:embed catalog.xml
var defaultCatalog []byte

// Catalog is the read-only product data behind the shop pages
type Catalog struct {
	Featured []models.Product
	Listings []models.Product
	Cart     []models.CartItem
	Seller   models.Seller
}

// Product returns the listing with the given id, or a placeholder product
// for unknown ids. Either way the default seller is attached.
func (c *Catalog) Product(id string) models.Product {
	seller := c.Seller
	for _, p := range c.Listings {
		if p.ID == id {
			p.Seller = &seller
			return p
		}
	}
	return models.Product{
		ID:          id,
		Title:       "Product " + id,
		Description: "Sample product description",
		Seller:      &seller,
	}
}

// Client loads the catalog feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new catalog client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.CatalogURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Load fetches the remote feed when one is configured and falls back to the
// embedded catalog if it is unreachable or malformed.
func (c *Client) Load(ctx context.Context) (*Catalog, error) {
	if c.url == "" {
		return Parse(defaultCatalog)
	}

	body, err := c.sendRequest(ctx)
	if err == nil {
		var cat *Catalog
		if cat, err = Parse(body); err == nil {
			c.log.Infof("Loaded catalog from %s: %d listings", c.url, len(cat.Listings))
			return cat, nil
		}
	}

	c.log.Warnf("Catalog feed unavailable, using embedded catalog: %v", err)
	return Parse(defaultCatalog)
}

// sendRequest downloads the catalog XML
func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
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

	c.log.Debugf("Catalog XML response: %d bytes", len(body))

	return body, nil
}

// Parse reads a catalog XML document
func Parse(raw []byte) (*Catalog, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	root := doc.SelectElement("catalog")
	if root == nil {
		return nil, fmt.Errorf("catalog element not found in XML")
	}

	cat := &Catalog{
		Featured: parseProducts(root.FindElements("./featured/product")),
		Listings: parseProducts(root.FindElements("./listings/product")),
	}
	for _, el := range root.FindElements("./cart/item") {
		cat.Cart = append(cat.Cart, models.CartItem{
			Name:  childText(el, "name"),
			Image: childText(el, "img"),
		})
	}

	if sellerEl := root.FindElement("./seller"); sellerEl != nil {
		cat.Seller = models.Seller{
			Name:  childText(sellerEl, "name"),
			Email: childText(sellerEl, "email"),
			Phone: childText(sellerEl, "phone"),
			Pic:   childText(sellerEl, "pic"),
		}
		if raw := childText(sellerEl, "ratings"); raw != "" {
			ratings, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse seller ratings: %v", err)
			}
			cat.Seller.Ratings = ratings
		}
	}

	if len(cat.Listings) == 0 && len(cat.Featured) == 0 {
		return nil, fmt.Errorf("no products found in XML")
	}
	return cat, nil
}

func parseProducts(elements []*etree.Element) []models.Product {
	products := make([]models.Product, 0, len(elements))
	for _, el := range elements {
		products = append(products, models.Product{
			ID:          el.SelectAttrValue("id", ""),
			Title:       childText(el, "title"),
			Description: childText(el, "desc"),
			Image:       childText(el, "img"),
		})
	}
	return products
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}
