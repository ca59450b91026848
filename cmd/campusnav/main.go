// README: Command-line client for campus lookup and routing; also serves the MCP tools over stdio.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"campusnav/internal/app"
	"campusnav/internal/config"
	"campusnav/internal/maps"
	"campusnav/internal/mcpserver"
	"campusnav/internal/modules/position"
	"campusnav/internal/types"
)

func main() {
	cmd := &cli.Command{
		Name:  "campusnav",
		Usage: "Search campus locations and get directions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search locations by name, description or category",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "assist", Usage: "Expand the query with the AI assistant"},
				},
				Action: withApp(search),
			},
			{
				Name:  "nearby",
				Usage: "List locations near a point",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "lat", Required: true},
					&cli.FloatFlag{Name: "lng", Required: true},
					&cli.FloatFlag{Name: "radius", Usage: "Radius in km (default from config)"},
				},
				Action: withApp(nearby),
			},
			{
				Name:      "directions",
				Usage:     "Route to a location id",
				ArgsUsage: "<location-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(maps.ModeWalking)},
					&cli.FloatFlag{Name: "lat", Usage: "Starting latitude (default campus center)"},
					&cli.FloatFlag{Name: "lng", Usage: "Starting longitude (default campus center)"},
				},
				Action: withApp(directions),
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools on stdin/stdout",
				Action: withApp(serveMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type appAction func(ctx context.Context, cmd *cli.Command, a *app.App) error

// withApp loads config and wires the application around a command. Logs go
// to stderr so stdout stays clean for results and the MCP transport.
func withApp(fn appAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		var out io.Writer = io.Discard
		if cmd.Bool("verbose") {
			out = os.Stderr
		}
		logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Log.Level}))
		slog.SetDefault(logger)

		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, cmd, a)
	}
}

func search(ctx context.Context, cmd *cli.Command, a *app.App) error {
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("usage: campusnav search <query>")
	}
	if cmd.Bool("assist") {
		return printJSON(a.Navigator.AssistedSearch(ctx, query))
	}
	return printJSON(a.Navigator.Catalog().Search(query))
}

func nearby(ctx context.Context, cmd *cli.Command, a *app.App) error {
	p := types.Point{Lat: cmd.Float("lat"), Lng: cmd.Float("lng")}
	if !p.Valid() {
		return fmt.Errorf("coordinates out of range: %s", p)
	}
	radius := a.Config.Navigation.NearbyRadiusKm
	if cmd.IsSet("radius") {
		radius = cmd.Float("radius")
	}
	return printJSON(slices.Collect(a.Navigator.Catalog().Nearby(p.Lat, p.Lng, radius)))
}

func directions(ctx context.Context, cmd *cli.Command, a *app.App) error {
	dest := cmd.Args().First()
	if dest == "" {
		return fmt.Errorf("usage: campusnav directions <location-id>")
	}
	var src position.Source
	if cmd.IsSet("lat") && cmd.IsSet("lng") {
		src = position.Static{Lat: cmd.Float("lat"), Lng: cmd.Float("lng")}
	}
	trip, err := a.Navigator.Plan(ctx, types.ID(dest), maps.Mode(cmd.String("mode")), src)
	if err != nil {
		return err
	}
	return printJSON(trip)
}

func serveMCP(ctx context.Context, cmd *cli.Command, a *app.App) error {
	return mcpserver.New(a.Navigator, a.Config.Navigation.NearbyRadiusKm).ServeStdio()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
