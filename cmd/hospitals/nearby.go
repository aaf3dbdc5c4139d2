package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zatekoja/careassist/backend/internal/adapters/providers/geolocation"
	"github.com/zatekoja/careassist/backend/internal/adapters/providers/overpass"
	"github.com/zatekoja/careassist/backend/internal/adapters/providers/routing"
	"github.com/zatekoja/careassist/backend/internal/application/services"
	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

const msgHospitalsFailed = "Failed to load hospitals. Please try again later."

func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lat", 0, "Latitude of the search anchor")
	cmd.Flags().Float64("lon", 0, "Longitude of the search anchor")
	cmd.Flags().Int("radius", 0, "Search radius in meters (default from HOSPITAL_RADIUS_METERS)")
	cmd.Flags().String("locate", "ip", "Location source when --lat/--lon are absent: ip or none")
	cmd.Flags().String("overpass-url", "", "Overpass interpreter URL (default from OVERPASS_URL)")
}

func (a *app) nearbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List hospitals ranked by straight-line distance",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.discover(cmd)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderBoard(cmd.OutOrStdout(), result, result.Hospitals, nil)
			return nil
		},
	}
	addDiscoveryFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	return cmd
}

func (a *app) routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route [hospital-id...]",
		Short: "Resolve driving time to selected hospitals",
		Long: "Runs a nearby search, then resolves driving routes for the given hospital ids " +
			"(for example node/123) or for the --top nearest ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.discover(cmd)
			if err != nil {
				return err
			}
			if result.Err != nil {
				renderBoard(cmd.OutOrStdout(), result, result.Hospitals, nil)
				return nil
			}

			board := services.NewHospitalBoard(result.Anchor, result.Hospitals, a.routeResolver(cmd))

			ids := args
			if len(ids) == 0 {
				top, _ := cmd.Flags().GetInt("top")
				for i, c := range result.Hospitals {
					if i >= top {
						break
					}
					ids = append(ids, c.ID)
				}
			}
			for _, id := range ids {
				if _, err := board.RequestDirections(cmd.Context(), id); err != nil {
					return err
				}
			}
			board.Wait()

			renderBoard(cmd.OutOrStdout(), result, board.Candidates(), board)
			return nil
		},
	}
	addDiscoveryFlags(cmd)
	cmd.Flags().Int("top", 1, "Resolve routes for the N nearest hospitals when no ids are given")
	cmd.Flags().Bool("estimate", false, "Estimate driving time offline instead of calling the directions proxy")
	cmd.Flags().String("proxy-url", "", "Directions proxy base URL (default from PROXY_URL)")
	return cmd
}

func (a *app) discover(cmd *cobra.Command) (entities.NearbyResult, error) {
	radius, _ := cmd.Flags().GetInt("radius")
	if radius < 0 || radius > overpass.MaxRadiusMeters {
		return entities.NearbyResult{}, fmt.Errorf("radius must be between 1 and %d meters", overpass.MaxRadiusMeters)
	}
	if radius == 0 {
		radius = a.cfg.Overpass.RadiusMeters
	}

	source, err := a.locationSource(cmd)
	if err != nil {
		return entities.NearbyResult{}, err
	}

	endpoint, _ := cmd.Flags().GetString("overpass-url")
	if endpoint == "" {
		endpoint = a.cfg.Overpass.URL
	}
	client := overpass.NewClient(overpass.Options{
		Endpoint:    endpoint,
		Timeout:     a.cfg.Overpass.Timeout,
		MaxAttempts: a.cfg.Overpass.MaxAttempts,
	})

	geo := services.NewGeolocator(source, services.GeolocatorConfig{
		Fallback: entities.Coordinate{
			Latitude:  a.cfg.Geolocation.FallbackLatitude,
			Longitude: a.cfg.Geolocation.FallbackLongitude,
		},
		Timeout:    a.cfg.Geolocation.Timeout,
		MaximumAge: a.cfg.Geolocation.MaximumAge,
	})

	return services.NewHospitalService(client, radius).Nearby(cmd.Context(), geo, radius), nil
}

func (a *app) locationSource(cmd *cobra.Command) (providers.LocationSource, error) {
	flags := cmd.Flags()
	if flags.Changed("lat") || flags.Changed("lon") {
		if !flags.Changed("lat") || !flags.Changed("lon") {
			return nil, fmt.Errorf("--lat and --lon must be given together")
		}
		lat, _ := flags.GetFloat64("lat")
		lon, _ := flags.GetFloat64("lon")
		return geolocation.NewStaticSource(entities.Coordinate{Latitude: lat, Longitude: lon}), nil
	}

	locate, _ := flags.GetString("locate")
	switch strings.ToLower(locate) {
	case "ip":
		return geolocation.NewIPSource(a.cfg.Geolocation.IPLookupURL, nil), nil
	case "none":
		return geolocation.UnavailableSource{}, nil
	default:
		return nil, fmt.Errorf("unknown --locate value %q", locate)
	}
}

func (a *app) routeResolver(cmd *cobra.Command) *services.RouteResolver {
	estimate, _ := cmd.Flags().GetBool("estimate")
	if estimate {
		return services.NewRouteResolver(routing.NewEstimateProvider(), a.cfg.Directions.Timeout)
	}
	proxyURL, _ := cmd.Flags().GetString("proxy-url")
	if proxyURL == "" {
		proxyURL = a.cfg.Client.ProxyURL
	}
	return services.NewRouteResolver(routing.NewProxyClient(proxyURL, nil), a.cfg.Directions.Timeout)
}

func renderBoard(out io.Writer, result entities.NearbyResult, candidates []entities.HospitalCandidate, board *services.HospitalBoard) {
	if result.LocationFallback {
		fmt.Fprintf(out, "Location unavailable, searching around %s\n", result.Anchor)
	} else {
		fmt.Fprintf(out, "Searching around %s\n", result.Anchor)
	}
	if result.Err != nil {
		fmt.Fprintln(out, msgHospitalsFailed)
		return
	}
	if len(candidates) == 0 {
		fmt.Fprintf(out, "No hospitals found within %.1f km\n", float64(result.RadiusMeters)/1000)
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDISTANCE\tROUTE\tADDRESS\tID")
	for i, c := range candidates {
		fmt.Fprintf(tw, "%d\t%s\t%.2f km\t%s\t%s\t%s\n", i+1, c.Name, c.DistanceKm, c.Route.Label(), c.Address, c.ID)
	}
	_ = tw.Flush()

	if board == nil {
		return
	}
	for _, c := range candidates {
		if c.Route.Status != entities.RouteResolved {
			continue
		}
		if link, ok := board.DirectionsURL(c.ID); ok {
			fmt.Fprintf(out, "%s: %s\n", c.Name, link)
		}
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
