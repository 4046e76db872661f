package weapons

import "github.com/pefman/hd2-armory/internal/models"

// FixtureHeaders and FixtureRows are a small built-in sheet used in test mode.
var FixtureHeaders = []string{"Code", "Name", "Atk Name", "Type", "Sub", "AP", "DF", "DMG", "DUR", "Atk Type"}

func FixtureRows() []models.AttackRow {
	t, n := models.Text, models.Number
	raw := [][]models.Cell{
		{t("ARC-01"), t("Arc Blaster"), t("Arc Blaster"), t("Primary"), t("Energy"), t("0"), n(25), n(30), n(0.5), t("Arc")},
		{t("ARC-01"), t("Arc Blaster"), t("Arc Blaster (Mk2)"), t("Primary"), t("Energy"), t("0"), n(30), n(60), n(0.3), t("Explosion")},
		{t("GNP-02"), t("Grenade Pistol"), t("Grenade Pistol"), t("Secondary"), t("Sidearm"), t("3"), n(40), n(90), n(0), t("Projectile")},
		{t("GNP-02"), t("Grenade Pistol"), t("Grenade Pistol"), t("Secondary"), t("Sidearm"), t("3"), n(50), n(120), n(0), t("Explosion")},
		{t("GL6-FR"), t("GL-6 Frag"), t("GL-6 Frag"), t("Grenade"), t("Explosive"), t("4"), n(25), n(220), n(0), t("Explosion")},
		{t("OBL-77"), t("Orbital Laser"), t("Orbital Laser"), t("Support"), t("Orbital"), t("6+"), n(30), n(300), n(2), t("Beam")},
		{t("SPR-09"), t("Spear"), t("Spear"), t("Stratagem"), t("Anti-Armor"), t("5"), n(25), n(200), n(0), t("Impact")},
		{t("FLM-10"), t("Flamethrower"), t("Flamethrower"), t("Primary"), t("Spray"), t("1/2"), n(25), n(25), n(1.8), t("Spray")},
	}
	rows := make([]models.AttackRow, len(raw))
	for i, cells := range raw {
		rows[i] = models.NewAttackRow(FixtureHeaders, cells)
	}
	return rows
}

// LoadFixture ingests the built-in sheet.
func (s *Store) LoadFixture() error {
	return s.Ingest(FixtureHeaders, FixtureRows())
}
