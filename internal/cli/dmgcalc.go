package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pefman/hd2-armory/internal/api"
	"github.com/pefman/hd2-armory/internal/catalog"
	"github.com/pefman/hd2-armory/internal/export"
	"github.com/pefman/hd2-armory/internal/game"
	"github.com/pefman/hd2-armory/internal/models"
)

// CalcOptions are the dmgcalc flags.
type CalcOptions struct {
	WeaponsSource string // CSV/TSV URL or path
	EnemySource   string // enemy document URL or path
	Fixtures      bool

	Weapon  string
	Faction string
	Unit    string
	Zone    string // zone name or index
	Rows    string // "0,2"; empty selects every row
	Hits    string // "0=3,2=2"

	List bool
	JSON bool
	Out  string // write an XLSX workbook here
}

// RunCalc loads the datasets and prints one damage calculation.
func RunCalc(ctx context.Context, opts CalcOptions, stdout io.Writer) error {
	cat := catalog.New(api.NewClient(api.Config{WeaponsURL: opts.WeaponsSource, EnemySource: opts.EnemySource}), nil)
	if opts.Fixtures {
		if _, err := cat.LoadFixtures(); err != nil {
			return err
		}
	} else if _, err := cat.Reload(ctx, false); err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	snap := cat.Snapshot()

	if opts.List {
		for _, o := range snap.Weapons.CalculatorOptions() {
			fmt.Fprintln(stdout, o.Label)
		}
		for _, u := range snap.Enemies.Units() {
			fmt.Fprintf(stdout, "%s/%s (%d zones)\n", u.Faction, u.Name, u.ZoneCount())
		}
		return nil
	}

	g, ok := snap.Weapons.Group(opts.Weapon)
	if !ok {
		return usageError("weapon %q not found (use -list)", opts.Weapon)
	}
	u, ok := snap.Enemies.Unit(opts.Faction, opts.Unit)
	if !ok {
		return usageError("unit %s/%s not found (use -list)", opts.Faction, opts.Unit)
	}
	zone, err := resolveZone(u, opts.Zone)
	if err != nil {
		return err
	}
	rows, err := parseRows(opts.Rows, len(g.Rows))
	if err != nil {
		return err
	}
	hits, err := parseHits(opts.Hits)
	if err != nil {
		return err
	}

	res := game.ComputeDamage(g, u, game.Selection{RowIndices: rows, HitsByRow: hits, ZoneIndex: zone}, game.ColumnsFor(snap.Weapons.Roles()))
	if res == nil {
		return usageError("no attack rows selected")
	}

	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.Out, err)
		}
		if err := export.DamageXLSX(f, res); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", opts.Out, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for _, line := range res.Logs {
		fmt.Fprintln(stdout, line)
	}
	if opts.Out != "" {
		fmt.Fprintf(stdout, "Wrote %s\n", opts.Out)
	}
	return nil
}

func resolveZone(u *models.EnemyUnit, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	for i, z := range u.Zones {
		if strings.EqualFold(z.ZoneName, raw) {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(u.Zones) {
		return i, nil
	}
	return 0, usageError("zone %q not found on %s", raw, u.Name)
}

func parseRows(raw string, n int) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, usageError("bad row index %q", part)
		}
		out = append(out, i)
	}
	return out, nil
}

func parseHits(raw string) (map[int]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	out := map[int]int{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, usageError("bad hits entry %q, want row=hits", part)
		}
		row, err1 := strconv.Atoi(k)
		n, err2 := strconv.Atoi(v)
		if err1 != nil || err2 != nil {
			return nil, usageError("bad hits entry %q, want row=hits", part)
		}
		out[row] = n
	}
	return out, nil
}
