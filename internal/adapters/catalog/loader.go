// Package catalog loads player catalogs from YAML files and keeps the
// current snapshot fresh while the file changes on disk.
package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/crickdash/internal/domain/player"
)

// LoadFile reads a catalog from a YAML file with a top-level players list:
//
//	players:
//	  - id: virat-kohli
//	    name: Virat Kohli
//	    country: India
//	    role: Batsman
//	    total_runs: 27599
//	    total_centuries: 80
//	    performance_trend:
//	      - {year: 2023, runs: 2048, average: 66.1, strike_rate: 93.5}
func LoadFile(path string) (*player.Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	var records []player.Record
	if err := k.UnmarshalWithConf("players", &records, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	for i := range records {
		role, err := player.ParseRole(string(records[i].Role))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
		}
		records[i].Role = role
	}

	c, err := player.New(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	return c, nil
}
