// Package search implements the tools the crews call back into while they
// run: video search and local venue search.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

const (
	ToolYouTube = "youtube_search"
	ToolPlaces  = "google_places_search"
)

// Toolbox dispatches tool calls by name.
type Toolbox struct {
	YouTube *YouTubeSearch
	Places  *PlacesSearch
}

// Names lists the tools the box can serve.
func (t *Toolbox) Names() []string { return []string{ToolYouTube, ToolPlaces} }

// Call runs the named tool with JSON arguments and returns its JSON string
// result.
func (t *Toolbox) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	switch name {
	case ToolYouTube:
		var a YouTubeArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return "", err
		}
		if a.Query == "" {
			return "", fmt.Errorf("%w: query is required", ErrInvalidArgs)
		}
		return t.YouTube.Search(ctx, a), nil
	case ToolPlaces:
		var a PlacesArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return "", err
		}
		if a.Hobby == "" || a.Location == "" {
			return "", fmt.Errorf("%w: hobby and location are required", ErrInvalidArgs)
		}
		return t.Places.Search(ctx, a), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func unmarshalArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidArgs)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}
