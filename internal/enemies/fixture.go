package enemies

// FixtureDocument is a small built-in enemy document used in test mode.
const FixtureDocument = `{
  "Terminid": {
    "Charger": {
      "health": 1500,
      "damageable_zones": [
        {"zone_name": "Main", "health": 1500, "Con": 0, "Dur%": 0, "AV": 1, "IsFatal": true, "ExTarget": "Main", "ExMult": 1, "ToMain%": 1, "MainCap": false},
        {"zone_name": "head", "health": 750, "Con": 0, "Dur%": 0.5, "AV": 4, "IsFatal": true, "ExTarget": "Part", "ExMult": "-", "ToMain%": 1, "MainCap": false},
        {"zone_name": "rear_leg", "health": 400, "Con": 300, "Dur%": 0, "AV": 2, "ExTarget": "Part", "ExMult": 0.5, "ToMain%": 0.5, "MainCap": true},
        {"zone_name": "armor_plate", "health": -1, "Con": 0, "Dur%": 1, "AV": 5, "ExTarget": "Part", "ToMain%": 0, "MainCap": false}
      ]
    },
    "Hunter": {
      "health": 200,
      "damageable_zones": [
        {"zone_name": "Main", "health": 200, "AV": 0, "IsFatal": true, "ExTarget": "Main", "ExMult": 1, "ToMain%": 1}
      ]
    }
  },
  "Automaton": {
    "Devastator": {
      "health": 750,
      "damageable_zones": [
        {"zone_name": "Main", "health": 750, "Con": 0, "Dur%": 0, "AV": 2, "IsFatal": true, "ExTarget": "Main", "ExMult": 1, "ToMain%": 1},
        {"zone_name": "head", "health": 150, "Con": 0, "Dur%": 0, "AV": 1, "IsFatal": true, "ExTarget": "Part", "ExMult": 1, "ToMain%": 1}
      ]
    }
  }
}`

// LoadFixture loads FixtureDocument.
func (r *Roster) LoadFixture() error {
	return r.Load([]byte(FixtureDocument))
}
