package main

import (
	"flag"
	"os"

	"github.com/pefman/hd2-armory/internal/cli"
)

func main() {
	in := flag.String("i", "", "raw game data dump (JSON keyed by content path)")
	out := flag.String("o", "enemydata.json", "enemy document to write")
	flag.Parse()
	os.Exit(cli.ExitCode(cli.RunEnemyParse(*in, *out, os.Stdout), os.Stderr))
}
