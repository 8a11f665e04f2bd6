package scrapers

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-scraper/config"
	"product-scraper/internal/types"
)

const amazonFixture = `
<html><body>
  <span id="productTitle">  Acme Wireless Headphones,   Noise Cancelling </span>
  <span class="a-price"><span class="a-price-symbol">$</span><span class="a-price-whole">129.</span><span class="a-price-fraction">99</span></span>
  <span class="a-price a-text-price"><span class="a-offscreen">$179.99</span></span>
  <a id="bylineInfo">Visit the Acme Store</a>
  <div id="feature-bullets">
    <ul>
      <li> 40 hour battery life </li>
      <li> Bluetooth 5.3 </li>
    </ul>
  </div>
  <i class="a-icon-star"><span class="a-icon-alt">4.6 out of 5 stars</span></i>
  <span id="acrCustomerReviewText">12,345 ratings</span>
  <img id="landingImage" src="https://img.example.com/main._AC_SX300_.jpg"/>
  <span class="imageThumbnail"><img src="https://img.example.com/thumb1._AC_US40_.jpg"/></span>
  <span class="imageThumbnail"><img src="https://img.example.com/thumb2._AC_US40_.jpg"/></span>
  <div id="availability"><span> Only 3 left in stock - order soon. </span></div>
  <table id="productDetails_techSpec_section_1">
    <tr><th>Brand</th><td>Acme</td></tr>
    <tr><th>Color</th><td>Black</td></tr>
  </table>
  <div id="wayfinding-breadcrumbs_feature_div">
    <ul>
      <li>Electronics</li>
      <li>›</li>
      <li>Headphones</li>
    </ul>
  </div>
</body></html>`

func newAmazonForTest() *AmazonScraper {
	cfg := config.Default().Scraper
	return NewAmazonScraper(&cfg, logrus.New())
}

func TestAmazonScraper_Platform(t *testing.T) {
	s := newAmazonForTest()
	defer s.Close()
	assert.Equal(t, types.PlatformAmazon, s.Platform())
}

func TestAmazonScraper_ParseProductDoc(t *testing.T) {
	s := newAmazonForTest()
	defer s.Close()

	doc, err := s.ParseHTML(amazonFixture)
	require.NoError(t, err)

	url := "https://www.amazon.com/dp/B0TEST"
	raw := s.parseProductDoc(doc, url)

	assert.Equal(t, url, raw.URL)
	assert.Equal(t, types.PlatformAmazon, raw.Platform)
	assert.Equal(t, "Acme Wireless Headphones,   Noise Cancelling", raw.Name)
	assert.Equal(t, "$129.99", raw.PriceText)
	assert.Equal(t, "$179.99", raw.OriginalPriceText)
	assert.Equal(t, "Visit the Acme Store", raw.Brand)
	assert.Equal(t, "4.6 out of 5 stars", raw.RatingText)
	assert.Equal(t, "12,345 ratings", raw.RatingCountText)
	assert.Equal(t, "Only 3 left in stock - order soon.", raw.AvailabilityText)
	assert.Equal(t, "https://img.example.com/main._AC_SX300_.jpg", raw.PrimaryImageURL)
	assert.Equal(t, []string{
		"https://img.example.com/thumb1._AC_SL1500_.jpg",
		"https://img.example.com/thumb2._AC_SL1500_.jpg",
	}, raw.Images)
	assert.Equal(t, []string{"40 hour battery life", "Bluetooth 5.3"}, raw.Features)
	assert.Equal(t, []types.Spec{
		{Name: "Brand", Value: "Acme"},
		{Name: "Color", Value: "Black"},
	}, raw.Specifications)
	assert.Equal(t, []string{"Electronics", "Headphones"}, raw.Categories)
}

func TestAmazonScraper_ParseProductDoc_EmptyPage(t *testing.T) {
	s := newAmazonForTest()
	defer s.Close()

	doc, err := s.ParseHTML("<html><body></body></html>")
	require.NoError(t, err)

	raw := s.parseProductDoc(doc, "https://www.amazon.com/dp/B0EMPTY")

	assert.Empty(t, raw.Name)
	assert.Empty(t, raw.PriceText)
	assert.Empty(t, raw.Images)
	assert.Empty(t, raw.Specifications)
}
