package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/savor"
)

func (a *app) newNearbyCmd() *cobra.Command {
	var (
		lat       float64
		lon       float64
		location  string
		venueType string
		radius    int
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Find food venues near you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := geoPoint(lat, lon)
			if err != nil {
				return err
			}
			if point == nil && location == "" {
				return fmt.Errorf("either --lat/--lon or --location is required")
			}
			if radius < 1 || radius > 50000 {
				return fmt.Errorf("--radius must be between 1 and 50000 meters, got %d", radius)
			}

			var venues []savor.Venue
			var resolved string
			err = a.spin(cmd.Context(), "finding venues", func() error {
				var err error
				venues, resolved, err = a.client.NearbyVenues(cmd.Context(), point, location, venueType, radius)
				return err
			})
			if err != nil {
				return err
			}
			if resolved != "" {
				fmt.Fprintf(a.stdout, "Near %s\n", resolved)
			}
			a.print(venues)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", unsetCoord, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", unsetCoord, "longitude")
	cmd.Flags().StringVar(&location, "location", "", "named location, e.g. \"Portland, OR\"")
	cmd.Flags().StringVar(&venueType, "type", "", "venue type, e.g. restaurant, cafe, grocery")
	cmd.Flags().IntVar(&radius, "radius", 2000, "search radius in meters")
	return cmd
}
