// Package placestest runs a fake geocoding and nearby-search provider for
// tests of code that sits on top of the places client.
package placestest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/places"
)

// UnknownLocation geocodes to ZERO_RESULTS.
const UnknownLocation = "Atlantis"

// Cafe is one nearby-search result served by the fake.
type Cafe struct {
	PlaceID string
	Name    string
	Address string
	Rating  float64
	Reviews int
}

// SanFrancisco is a realistic nearby result set with ten eligible shops and
// two that fall under the review floor.
var SanFrancisco = []Cafe{
	{PlaceID: "sf-sightglass", Name: "Sightglass Coffee", Address: "270 7th St", Rating: 4.6, Reviews: 2100},
	{PlaceID: "sf-ritual", Name: "Ritual Coffee Roasters", Address: "1026 Valencia St", Rating: 4.5, Reviews: 1800},
	{PlaceID: "sf-bluebottle", Name: "Blue Bottle Coffee", Address: "66 Mint St", Rating: 4.5, Reviews: 1200},
	{PlaceID: "sf-philz", Name: "Philz Coffee", Address: "3101 24th St", Rating: 4.7, Reviews: 3200},
	{PlaceID: "sf-fourbarrel", Name: "Four Barrel Coffee", Address: "375 Valencia St", Rating: 4.4, Reviews: 1500},
	{PlaceID: "sf-saintfrank", Name: "Saint Frank Coffee", Address: "2340 Polk St", Rating: 4.6, Reviews: 900},
	{PlaceID: "sf-andytown", Name: "Andytown Coffee Roasters", Address: "3655 Lawton St", Rating: 4.7, Reviews: 1100},
	{PlaceID: "sf-equator", Name: "Equator Coffees", Address: "986 Market St", Rating: 4.5, Reviews: 700},
	{PlaceID: "sf-wreckingball", Name: "Wrecking Ball Coffee", Address: "2271 Union St", Rating: 4.4, Reviews: 400},
	{PlaceID: "sf-flywheel", Name: "Flywheel Coffee Roasters", Address: "672 Stanyan St", Rating: 4.3, Reviews: 650},
	{PlaceID: "sf-popup", Name: "Pop-Up Espresso Cart", Address: "Dolores Park", Rating: 5.0, Reviews: 6},
	{PlaceID: "sf-new", Name: "Brand New Beans", Address: "1 Market St", Rating: 4.9, Reviews: 10},
}

// Provider is a running fake. Geocoding any query except UnknownLocation
// resolves to San Francisco; a nearby search at exactly (0,0) returns
// ZERO_RESULTS and anywhere else returns Cafes.
type Provider struct {
	Server *httptest.Server
	Cafes  []Cafe

	GeocodeCalls atomic.Int32
	NearbyCalls  atomic.Int32
}

func NewProvider(t testing.TB, cafes []Cafe) *Provider {
	t.Helper()
	p := &Provider{Cafes: cafes}

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/json", p.geocode)
	mux.HandleFunc("/nearbysearch/json", p.nearby)
	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)
	return p
}

// Config points a places client at the fake.
func (p *Provider) Config() places.Config {
	return places.Config{
		GeocodeURL: p.Server.URL + "/geocode/json",
		NearbyURL:  p.Server.URL + "/nearbysearch/json",
		PhotoURL:   p.Server.URL + "/photo",
		Timeout:    2 * time.Second,
	}
}

// Client returns a places client wired to the fake with a static key.
func (p *Provider) Client(t testing.TB) *places.Client {
	return places.NewClient(p.Config(), nil, places.StaticKey("test-key"), nil, logger.NewTestLogger(t))
}

func (p *Provider) geocode(w http.ResponseWriter, r *http.Request) {
	p.GeocodeCalls.Add(1)

	if r.URL.Query().Get("address") == UnknownLocation {
		writeJSON(w, map[string]interface{}{"status": "ZERO_RESULTS", "results": []interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{
		"status": "OK",
		"results": []map[string]interface{}{{
			"formatted_address": "San Francisco, CA, USA",
			"geometry":          map[string]interface{}{"location": map[string]float64{"lat": 37.7749, "lng": -122.4194}},
		}},
	})
}

func (p *Provider) nearby(w http.ResponseWriter, r *http.Request) {
	p.NearbyCalls.Add(1)

	if r.URL.Query().Get("location") == "0,0" {
		writeJSON(w, map[string]interface{}{"status": "ZERO_RESULTS", "results": []interface{}{}})
		return
	}

	results := make([]map[string]interface{}, 0, len(p.Cafes))
	for i, c := range p.Cafes {
		results = append(results, map[string]interface{}{
			"place_id":           c.PlaceID,
			"name":               c.Name,
			"vicinity":           c.Address,
			"rating":             c.Rating,
			"user_ratings_total": c.Reviews,
			"geometry": map[string]interface{}{"location": map[string]float64{
				"lat": 37.76 + float64(i)/1000,
				"lng": -122.42 + float64(i)/1000,
			}},
			"photos": []map[string]interface{}{{"photo_reference": fmt.Sprintf("photo-%s", c.PlaceID)}},
		})
	}
	writeJSON(w, map[string]interface{}{"status": "OK", "results": results})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
