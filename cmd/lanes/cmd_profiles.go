package main

import (
	"fmt"

	"github.com/lane-analytics/backend/internal/parser"
	"github.com/spf13/cobra"
)

// profilesCmd lists column profiles
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the known column profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := parser.LoadProfiles(profilesFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range parser.ProfileNames(profiles) {
			p := profiles.Profiles[name]
			marker := " "
			if name == profiles.Default {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, titleStyle.Render(name))
			fmt.Fprintf(out, "    origin:        %s\n", p.Origin)
			fmt.Fprintf(out, "    destination:   %s\n", p.Destination)
			fmt.Fprintf(out, "    delivery time: %s\n", p.DeliveryTime)
		}
		return nil
	},
}
