// Package export writes weapon tables and damage results as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pefman/hd2-armory/internal/game"
	"github.com/pefman/hd2-armory/internal/models"
)

const (
	WeaponsSheet = "Weapons"
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	if len(headers) == 0 {
		return nil
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func cellValue(c models.Cell) any {
	switch c.Kind {
	case models.CellNumber:
		return c.Num
	case models.CellBool:
		return c.Bool
	case models.CellString:
		return c.Str
	}
	return nil
}

// WeaponsXLSX writes groups, one line per attack row, in the given order.
func WeaponsXLSX(w io.Writer, headers []string, groups []*models.WeaponGroup) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", WeaponsSheet); err != nil {
		return err
	}
	if err := writeHeader(f, WeaponsSheet, headers); err != nil {
		return err
	}
	line := 1
	for _, g := range groups {
		for _, r := range g.Rows {
			line++
			vals := make([]any, len(headers))
			for i, h := range headers {
				vals[i] = cellValue(r.Get(h))
			}
			if err := f.SetSheetRow(WeaponsSheet, cellName(1, line), &vals); err != nil {
				return fmt.Errorf("write row %d: %w", line, err)
			}
		}
	}
	_, err := f.WriteTo(w)
	return err
}

var resultHeaders = []string{
	"Attack", "Row", "Hits", "DMG", "DUR", "Dur%", "AP", "AV",
	"AP Multi", "Explosive", "ExMult", "Zone Dmg/Hit", "Main Dmg/Hit", "Formula",
}

// DamageXLSX writes a calculator result: per-attack lines and a summary sheet.
func DamageXLSX(w io.Writer, res *game.Result) error {
	if res == nil {
		return fmt.Errorf("no result to export")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return err
	}
	if err := writeHeader(f, ResultsSheet, resultHeaders); err != nil {
		return err
	}
	for i, a := range res.Attacks {
		vals := []any{
			a.Name, a.Row, a.Hits, a.Damage, a.Duration, a.DurabilityFraction, a.ArmorPenetration, a.ArmorValue,
			a.PenetrationMultiplier, a.Explosive, a.ExplosionMultiplier, a.ZoneDamagePerHit, a.MainDamagePerHit, a.Substituted,
		}
		if err := f.SetSheetRow(ResultsSheet, cellName(1, i+2), &vals); err != nil {
			return fmt.Errorf("write attack %d: %w", i, err)
		}
	}
	if n := len(res.Attacks); n > 0 {
		pct, err := f.NewStyle(&excelize.Style{NumFmt: 9})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(ResultsSheet, "F2", cellName(6, n+1), pct); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	shots := func(p *int) any {
		if p == nil {
			return "-"
		}
		return *p
	}
	summary := [][]any{
		{"Weapon", res.Weapon},
		{"Faction", res.Faction},
		{"Unit", res.Unit},
		{"Zone", res.Zone},
		{"Zone damage per cycle", res.TotalZoneDamagePerCycle},
		{"Main damage per cycle", res.TotalMainDamagePerCycle},
		{"Shots to destroy zone", shots(res.ShotsToDestroyZone)},
		{"Shots including Con", shots(res.ShotsToDepleteZoneWithConstitution)},
		{"Shots to kill (main)", shots(res.ShotsToDestroyMain)},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(SummarySheet, cellName(1, i+1), &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
