package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/models"
	"coffee-tournament/internal/runner"
	"coffee-tournament/internal/tournament"
	battle "coffee-tournament/internal/workers/tournament/battle-coffee-shops"
	discover "coffee-tournament/internal/workers/tournament/find-coffee-shops"
	locate "coffee-tournament/internal/workers/tournament/resolve-location"
	"coffee-tournament/pkg/registry"

	"github.com/spf13/cobra"
)

func (c *cli) locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <location>",
		Short: "Resolve a place name to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			a, err := c.build(ctx)
			if err != nil {
				return err
			}
			out, err := a.Locate.Execute(ctx, &locate.Input{Location: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (c *cli) discoverCmd() *cobra.Command {
	var lat, lng float64
	var radius int

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find and seed the top eight coffee shops near coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return errors.NewInvalidArgumentError("Latitude and longitude are required")
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			a, err := c.build(ctx)
			if err != nil {
				return err
			}
			out, err := a.Discover.Execute(ctx, &discover.Input{Lat: &lat, Lng: &lng, Radius: radius})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().IntVar(&radius, "radius", 0, "Search radius in meters (default from config)")
	return cmd
}

func (c *cli) battleCmd() *cobra.Command {
	var shop1, shop2 string

	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Judge a single battle between two shops",
		Example: `  tournament-cli battle \
    --shop1 '{"name":"Philz Coffee","address":"3101 24th St","rating":4.7,"userRatingsTotal":3200}' \
    --shop2 '{"name":"Blue Bottle Coffee","address":"66 Mint St","rating":4.5,"userRatingsTotal":1200}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input battle.Input
			for name, raw := range map[string]string{"shop1": shop1, "shop2": shop2} {
				if raw == "" {
					continue
				}
				var s models.Shop
				if err := json.Unmarshal([]byte(raw), &s); err != nil {
					return errors.NewInvalidArgumentError(fmt.Sprintf("--%s is not valid shop JSON: %v", name, err))
				}
				if name == "shop1" {
					input.Shop1 = &s
				} else {
					input.Shop2 = &s
				}
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			a, err := c.build(ctx)
			if err != nil {
				return err
			}
			out, err := a.Battle.Execute(ctx, &input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&shop1, "shop1", "", "First shop as JSON")
	cmd.Flags().StringVar(&shop2, "shop2", "", "Second shop as JSON")
	return cmd
}

func (c *cli) runCmd() *cobra.Command {
	var cfg runner.Config
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <location>",
		Short: "Play a whole tournament for a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			a, err := c.build(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			r := a.Runner(cfg)
			if !asJSON {
				r.OnBattle = func(t *tournament.Tournament, res models.BattleResult) {
					loser := res.ShopA
					if loser.Key() == res.Winner.Key() {
						loser = res.ShopB
					}
					tag := ""
					if res.Fallback {
						tag = " (fallback)"
					}
					fmt.Fprintf(w, "%-12s %s beats %s%s\n", res.Round, res.Winner.Name, loser.Name, tag)
				}
			}

			result, err := r.Run(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(w, result.Tournament)
			}
			fmt.Fprintf(w, "\nChampion of %s: %s\n", result.Tournament.Location, result.Tournament.Champion.Name)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Radius, "radius", 0, "Search radius in meters (default from config)")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 4, "Battles judged at once per round")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the finished tournament as JSON")
	return cmd
}

func (c *cli) toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the operation registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), registry.Default())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Write the operation registry to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := reg.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d operations to %s\n", len(reg.Operations), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <path>",
		Short: "Check a registry file for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(args[0])
			if err != nil {
				return err
			}
			if len(reg.Operations) == 0 {
				return fmt.Errorf("registry %s contains no operations", args[0])
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registry %s is valid (%d operations)\n", args[0], len(reg.Operations))
			return nil
		},
	})
	return cmd
}
