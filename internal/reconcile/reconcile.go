// Package reconcile turns crew output into typed results. Structured task
// payloads are used when present and schema-valid; otherwise JSON is
// recovered from the free text. Reconciliation never fails for a known kind:
// when nothing parses the kind's empty result is returned.
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"meraki-api/internal/domain"
	"meraki-api/internal/model"

	"golang.org/x/net/publicsuffix"
)

// ErrUnknownKind is returned by Reconcile for a kind it has no shape for.
var ErrUnknownKind = errors.New("unknown job kind")

// Reconcile dispatches to the reconciler for kind.
func Reconcile(kind domain.Kind, out domain.CrewOutput) (domain.Result, error) {
	switch kind {
	case domain.KindDiscovery:
		return Discovery(out), nil
	case domain.KindSamplingPreview:
		return SamplingPreview(out), nil
	case domain.KindLocalExperiences:
		return LocalExperiences(out), nil
	case domain.KindPracticeFeedback:
		return single[domain.PracticeFeedbackResult](out, domain.OutputPracticeFeedback), nil
	case domain.KindChallengeGeneration:
		return single[domain.ChallengeResult](out, domain.OutputChallenge), nil
	case domain.KindMotivationCheck:
		return single[domain.NudgeResult](out, domain.OutputNudge), nil
	case domain.KindRoadmapGeneration:
		return single[domain.RoadmapResult](out, domain.OutputRoadmap), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// structured returns the first schema-valid payload tagged t.
func structured(out domain.CrewOutput, t domain.OutputType) (json.RawMessage, bool) {
	for _, task := range out.Tasks {
		if task.OutputType != t || !task.HasStructured() {
			continue
		}
		if model.Validate(t, task.Structured) == nil {
			return task.Structured, true
		}
	}
	return nil, false
}

// crewText is the text the fallback scans: the crew's final output, or the
// first task's when the crew reported none.
func crewText(out domain.CrewOutput) string {
	if out.Raw != "" || len(out.Tasks) == 0 {
		return out.Raw
	}
	return out.Tasks[0].Raw
}

type resultPtr[T any] interface {
	*T
	domain.Result
}

// single reconciles kinds produced by a one-step crew.
func single[T any, P resultPtr[T]](out domain.CrewOutput, t domain.OutputType) P {
	if raw, ok := structured(out, t); ok {
		var v T
		if decodeObject(raw, &v) {
			return normalized[T, P](&v)
		}
	}
	if raw, err := ExtractJSON(crewText(out)); err == nil {
		var v T
		if decodeObject(raw, &v) {
			return normalized[T, P](&v)
		}
	}
	return normalized[T, P](new(T))
}

func normalized[T any, P resultPtr[T]](v *T) P {
	p := P(v)
	domain.Normalize(p)
	return p
}

// Discovery looks for the matches object across the whole crew output. The
// last candidate wins since crews tend to restate their final answer at the
// end. A bare array of match records is wrapped; when nothing parses the raw
// text is kept for diagnosis.
func Discovery(out domain.CrewOutput) *domain.DiscoveryResult {
	if raw, ok := structured(out, domain.OutputMatches); ok {
		var r domain.DiscoveryResult
		if decodeObject(raw, &r) {
			return normalized[domain.DiscoveryResult](&r)
		}
	}

	text := out.Raw
	if text == "" {
		parts := make([]string, 0, len(out.Tasks))
		for _, t := range out.Tasks {
			parts = append(parts, t.Raw)
		}
		text = strings.Join(parts, "\n")
	}

	cands := Candidates(text)
	if raw, err := lastObjectWithKey(cands, "matches"); err == nil {
		var r domain.DiscoveryResult
		if decodeObject(raw, &r) {
			return normalized[domain.DiscoveryResult](&r)
		}
	}
	for i := len(cands) - 1; i >= 0; i-- {
		if matches, ok := matchRecords(cands[i]); ok {
			return normalized[domain.DiscoveryResult](&domain.DiscoveryResult{Matches: matches})
		}
	}

	return normalized[domain.DiscoveryResult](&domain.DiscoveryResult{RawOutput: text})
}

// matchRecords accepts a non-empty array whose elements carry hobby_slug.
func matchRecords(raw json.RawMessage) ([]domain.HobbyMatch, bool) {
	if !isArray(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	matches := make([]domain.HobbyMatch, 0, len(items))
	for _, item := range items {
		if !hasKey(item, "hobby_slug") {
			return nil, false
		}
		var m domain.HobbyMatch
		if !decodeObject(item, &m) {
			return nil, false
		}
		matches = append(matches, m)
	}
	return matches, true
}

// samplingSlots is the step order of the sampling preview crew. Untagged
// steps are assigned by position, so reordering the crew's tasks silently
// puts payloads into the wrong slots.
var samplingSlots = [...]domain.OutputType{
	domain.OutputRecommendation,
	domain.OutputMicroActivity,
	domain.OutputVideos,
}

// SamplingPreview assembles the three-step sampling result. Each step is
// reconciled on its own and a missing step leaves its slot null.
func SamplingPreview(out domain.CrewOutput) *domain.SamplingPreviewResult {
	res := &domain.SamplingPreviewResult{}
	for i, task := range out.Tasks {
		if task.HasStructured() && model.Validate(task.OutputType, task.Structured) == nil {
			if assignSampling(res, task.OutputType, task.Structured) {
				continue
			}
		}
		if i >= len(samplingSlots) {
			continue
		}
		raw, err := ExtractJSON(task.Raw)
		if err != nil {
			continue
		}
		slot := samplingSlots[i]
		if samplingSlotFilled(res, slot) {
			continue
		}
		assignSampling(res, slot, raw)
	}
	return normalized[domain.SamplingPreviewResult](res)
}

func samplingSlotFilled(res *domain.SamplingPreviewResult, slot domain.OutputType) bool {
	switch slot {
	case domain.OutputRecommendation:
		return res.Recommendation != nil
	case domain.OutputMicroActivity:
		return res.MicroActivity != nil
	case domain.OutputVideos:
		return res.Videos != nil
	}
	return false
}

func assignSampling(res *domain.SamplingPreviewResult, slot domain.OutputType, raw json.RawMessage) bool {
	switch slot {
	case domain.OutputRecommendation:
		var r domain.SamplingRecommendation
		if !decodeObject(raw, &r) {
			return false
		}
		res.Recommendation = &r
		return true
	case domain.OutputMicroActivity:
		var m domain.MicroActivity
		if !decodeObject(raw, &m) {
			return false
		}
		res.MicroActivity = &m
		return true
	case domain.OutputVideos:
		videos, ok := decodeVideos(raw)
		if ok {
			res.Videos = videos
		}
		return ok
	}
	return false
}

// decodeVideos accepts {"videos": [...]} or a bare array of videos.
func decodeVideos(raw json.RawMessage) ([]domain.VideoItem, bool) {
	if hasKey(raw, "videos") {
		var wrapped struct {
			Videos json.RawMessage `json:"videos"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, false
		}
		raw = wrapped.Videos
	}
	if !isArray(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	videos := make([]domain.VideoItem, 0, len(items))
	for _, item := range items {
		var v domain.VideoItem
		if decodeObject(item, &v) {
			videos = append(videos, v)
		}
	}
	return videos, true
}

// LocalExperiences reconciles the local experiences crew and labels each
// spot's link with its registrable domain.
func LocalExperiences(out domain.CrewOutput) *domain.LocalExperiencesResult {
	res := single[domain.LocalExperiencesResult](out, domain.OutputLocalExperiences)
	for i := range res.LocalSpots {
		res.LocalSpots[i].URLLabel = urlLabel(res.LocalSpots[i].URL)
	}
	return res
}

// urlLabel returns "example.co.uk" for "https://www.studio.example.co.uk/x".
func urlLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	label, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return label
}
