package main

import (
	"context"
	"flag"
	"os"

	"github.com/pefman/hd2-armory/internal/api"
	"github.com/pefman/hd2-armory/internal/cli"
	"github.com/pefman/hd2-armory/internal/config"
)

func main() {
	config.LoadDotEnv(config.EnvPaths...)
	var opts cli.CalcOptions
	flag.StringVar(&opts.WeaponsSource, "weapons", envOr("WEAPONS_CSV_URL", api.DefaultWeaponsURL), "weapon sheet CSV/TSV URL or path")
	flag.StringVar(&opts.EnemySource, "enemies", envOr("ENEMY_DATA_URL", api.DefaultEnemySource), "enemy document URL or path")
	flag.BoolVar(&opts.Fixtures, "fixtures", false, "use the built-in test data")
	flag.StringVar(&opts.Weapon, "weapon", "", "weapon name")
	flag.StringVar(&opts.Faction, "faction", "", "enemy faction")
	flag.StringVar(&opts.Unit, "unit", "", "enemy unit")
	flag.StringVar(&opts.Zone, "zone", "", "zone name or index (default first zone)")
	flag.StringVar(&opts.Rows, "rows", "", "comma-separated attack row indices (default all)")
	flag.StringVar(&opts.Hits, "hits", "", "hits per row, e.g. 0=3,1=2")
	flag.BoolVar(&opts.List, "list", false, "list weapons and units, then exit")
	flag.BoolVar(&opts.JSON, "json", false, "print the result as JSON")
	flag.StringVar(&opts.Out, "out", "", "also write the result to this XLSX file")
	flag.Parse()

	os.Exit(cli.ExitCode(cli.RunCalc(context.Background(), opts, os.Stdout), os.Stderr))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
