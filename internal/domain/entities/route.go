package entities

import (
	"encoding/json"
	"fmt"
	"math"
)

// RouteStatus is the lifecycle position of a candidate's route lookup
type RouteStatus int

const (
	RouteUnresolved RouteStatus = iota
	RouteResolving
	RouteResolved
	RouteFailed
)

func (s RouteStatus) String() string {
	switch s {
	case RouteUnresolved:
		return "unresolved"
	case RouteResolving:
		return "resolving"
	case RouteResolved:
		return "resolved"
	case RouteFailed:
		return "failed"
	default:
		return fmt.Sprintf("RouteStatus(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its name
func (s RouteStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// RouteState is the tagged per-candidate route state. DurationMinutes and
// DistanceKm are only meaningful when Status is RouteResolved.
type RouteState struct {
	Status          RouteStatus `json:"status"`
	DurationMinutes int         `json:"duration_minutes"`
	DistanceKm      float64     `json:"distance_km"`
}

// MarshalJSON always carries duration and distance for a resolved state and
// omits them otherwise.
func (s RouteState) MarshalJSON() ([]byte, error) {
	if s.Status != RouteResolved {
		return json.Marshal(struct {
			Status RouteStatus `json:"status"`
		}{s.Status})
	}
	return json.Marshal(struct {
		Status          RouteStatus `json:"status"`
		DurationMinutes int         `json:"duration_minutes"`
		DistanceKm      float64     `json:"distance_km"`
	}{s.Status, s.DurationMinutes, s.DistanceKm})
}

// Resolving returns the in-flight state
func Resolving() RouteState {
	return RouteState{Status: RouteResolving}
}

// Resolved returns the terminal success state for a summary
func Resolved(summary RouteSummary) RouteState {
	return RouteState{
		Status:          RouteResolved,
		DurationMinutes: summary.DurationMinutes,
		DistanceKm:      summary.DistanceKm,
	}
}

// Failed returns the terminal failure state
func Failed() RouteState {
	return RouteState{Status: RouteFailed}
}

// Label renders the state for display. A failed lookup never renders a number.
func (s RouteState) Label() string {
	switch s.Status {
	case RouteResolving:
		return "Calculating route..."
	case RouteResolved:
		return fmt.Sprintf("~%d min", s.DurationMinutes)
	case RouteFailed:
		return "Route unavailable"
	default:
		return ""
	}
}

// RouteSummary is the distance/duration pair for one origin-destination pair
type RouteSummary struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

// NewRouteSummary converts provider units (meters, seconds) to km and whole minutes.
func NewRouteSummary(distanceMeters, durationSeconds float64) RouteSummary {
	return RouteSummary{
		DistanceKm:      distanceMeters / 1000,
		DurationMinutes: int(math.Round(durationSeconds / 60)),
	}
}
