package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	placesTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	placesPhotoURL      = "https://maps.googleapis.com/maps/api/place/photo"
)

// PlacesSearch finds classes, studios and workshops for a hobby through the
// Places Text Search API.
type PlacesSearch struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewPlacesSearch builds the tool. An empty apiKey yields a tool that answers
// with a "not configured" payload.
func NewPlacesSearch(apiKey string) *PlacesSearch {
	return &PlacesSearch{
		apiKey:  apiKey,
		baseURL: placesTextSearchURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// PlacesArgs are the tool arguments.
type PlacesArgs struct {
	Hobby      string `json:"hobby"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

// Place is one venue returned to the crew.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       string   `json:"price_level"`
	Types            []string `json:"types"`
	OpenNow          *bool    `json:"open_now"`
	Photos           []string `json:"photos"`
	VenueType        string   `json:"venue_type"`
}

type placesResponse struct {
	Error      string  `json:"error,omitempty"`
	Hobby      string  `json:"hobby,omitempty"`
	Location   string  `json:"location,omitempty"`
	Places     []Place `json:"places"`
	TotalFound *int    `json:"total_found,omitempty"`
}

type textSearchResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
	OpeningHours     *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

type textSearchResponse struct {
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	Results      []textSearchResult `json:"results"`
}

// Search runs the venue queries concurrently and returns the tool result as a
// JSON string. A failing query is skipped.
func (p *PlacesSearch) Search(ctx context.Context, args PlacesArgs) string {
	if p.apiKey == "" {
		return encode(placesResponse{
			Error:  "GOOGLE_PLACES_API_KEY or NEXT_PUBLIC_GOOGLE_MAPS_API_KEY environment variable not set",
			Places: []Place{},
		})
	}

	limit := clampResults(args.MaxResults)
	queries := []string{
		fmt.Sprintf("%s class near %s", args.Hobby, args.Location),
		fmt.Sprintf("%s workshop near %s", args.Hobby, args.Location),
		fmt.Sprintf("%s studio near %s", args.Hobby, args.Location),
		fmt.Sprintf("%s lessons near %s", args.Hobby, args.Location),
	}

	perQuery := make([][]Place, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			places, err := p.textSearch(gctx, q, limit)
			if err != nil {
				slog.Warn("search.places: query failed, skipping", "query", q, "error", err)
				return nil
			}
			perQuery[i] = places
			return nil
		})
	}
	_ = g.Wait()

	var all []Place
	seen := make(map[string]bool)
	for _, places := range perQuery {
		for _, pl := range places {
			if seen[pl.PlaceID] {
				continue
			}
			seen[pl.PlaceID] = true
			all = append(all, pl)
		}
		if len(all) >= limit*2 {
			break
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := ratingOf(all[i]), ratingOf(all[j])
		if ri != rj {
			return ri > rj
		}
		return all[i].UserRatingsTotal > all[j].UserRatingsTotal
	})

	total := len(all)
	top := all[:min(limit, len(all))]
	if top == nil {
		top = []Place{}
	}
	return encode(placesResponse{Hobby: args.Hobby, Location: args.Location, Places: top, TotalFound: &total})
}

func (p *PlacesSearch) textSearch(ctx context.Context, query string, limit int) ([]Place, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", p.apiKey)
	params.Set("type", "establishment")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places returned %d", resp.StatusCode)
	}

	var data textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Status != "OK" && data.Status != "ZERO_RESULTS" {
		msg := data.ErrorMessage
		if msg == "" {
			msg = data.Status
		}
		return nil, fmt.Errorf("google places api error: %s", msg)
	}

	results := data.Results[:min(limit, len(data.Results))]
	places := make([]Place, 0, len(results))
	for _, r := range results {
		pl := Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Address:          r.FormattedAddress,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       PriceLevel(r.PriceLevel),
			Types:            r.Types,
			Photos:           []string{},
			VenueType:        VenueType(r.Types, r.Name),
		}
		if pl.Types == nil {
			pl.Types = []string{}
		}
		if r.OpeningHours != nil {
			pl.OpenNow = r.OpeningHours.OpenNow
		}
		if len(r.Photos) > 0 && r.Photos[0].PhotoReference != "" {
			pl.Photos = append(pl.Photos, p.photoURL(r.Photos[0].PhotoReference))
		}
		places = append(places, pl)
	}
	return places, nil
}

func (p *PlacesSearch) photoURL(ref string) string {
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photo_reference", ref)
	params.Set("key", p.apiKey)
	return placesPhotoURL + "?" + params.Encode()
}

func ratingOf(p Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// PriceLevel renders the Places price level for display.
func PriceLevel(level *int) string {
	if level == nil {
		return "Price not available"
	}
	switch *level {
	case 0:
		return "Free"
	case 1:
		return "Inexpensive ($)"
	case 2:
		return "Moderate ($$)"
	case 3:
		return "Expensive ($$$)"
	case 4:
		return "Very Expensive ($$$$)"
	}
	return "Price not available"
}

// VenueType guesses a display category from the Places types and the venue name.
func VenueType(types []string, name string) string {
	lower := strings.ToLower(name)
	has := func(t string) bool { return slices.Contains(types, t) }

	switch {
	case has("school") || strings.Contains(lower, "school") || strings.Contains(lower, "academy"):
		return "School"
	case strings.Contains(lower, "studio"):
		return "Studio"
	case strings.Contains(lower, "workshop"):
		return "Workshop"
	case strings.Contains(lower, "class") || strings.Contains(lower, "lesson"):
		return "Class"
	case has("store") || strings.Contains(lower, "shop"):
		return "Supply Store"
	case has("gym") || strings.Contains(lower, "fitness"):
		return "Fitness Center"
	case has("art_gallery"):
		return "Gallery"
	case strings.Contains(lower, "community") || strings.Contains(lower, "center"):
		return "Community Center"
	}
	return "Venue"
}
