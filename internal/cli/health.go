package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.client.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			var status map[string]any
			if err := json.Unmarshal(raw, &status); err != nil {
				// Some deployments answer with a bare string.
				fmt.Fprintf(a.stdout, "%s\n", raw)
				return nil
			}
			a.print(status)
			return nil
		},
	}
}
