package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Org holds the organization-specific settings that shape event handling:
// the local time zone used for validation and projections, and how long a
// closed event keeps appearing in the active list.
type Org struct {
	Timezone     string `yaml:"timezone"`
	ActiveWindow int    `yaml:"active_window_days"`
}

// LoadOrg reads organization settings from the YAML file at path when one
// is given, falling back to ORG_TIMEZONE / ORG_ACTIVE_WINDOW_DAYS env vars
// and finally to defaults.  A file that cannot be read or parsed is fatal;
// a misconfigured organization would silently mis-validate every event.
func LoadOrg(path string) Org {
	org := Org{
		Timezone:     envStr("ORG_TIMEZONE", "America/Los_Angeles"),
		ActiveWindow: envInt("ORG_ACTIVE_WINDOW_DAYS", 2),
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read org config %s: %v", path, err)
		}
		if err := yaml.Unmarshal(raw, &org); err != nil {
			log.Fatalf("parse org config %s: %v", path, err)
		}
	}
	if org.ActiveWindow < 1 {
		org.ActiveWindow = 2
	}
	return org
}

// Location resolves the configured time zone.  An unknown zone is fatal at
// startup rather than a per-request surprise.
func (o Org) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		log.Fatalf("invalid org timezone %q: %v", o.Timezone, err)
	}
	return loc
}

// ActiveCutoff returns the instant before which a closed event no longer
// counts as active.
func (o Org) ActiveCutoff(now time.Time) time.Time {
	return now.UTC().Add(-time.Duration(o.ActiveWindow) * 24 * time.Hour)
}
