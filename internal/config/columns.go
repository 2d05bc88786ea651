package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// columnMapFile is the YAML layout of COLUMN_MAP_FILE:
//
//	columns:
//	  - column: postal_code
//	    aliases: ["CEP destino"]
type columnMapFile struct {
	Columns []columnAliases `yaml:"columns" validate:"required,min=1,dive"`
}

type columnAliases struct {
	Column  string   `yaml:"column" validate:"required,oneof=stop package_id customer street number complement neighborhood city postal_code type signature"`
	Aliases []string `yaml:"aliases" validate:"required,min=1,dive,required"`
}

// LoadColumnMap reads extra header aliases from path and merges them into base.
func LoadColumnMap(path string, base domain.Schema) (domain.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Schema{}, fmt.Errorf("read COLUMN_MAP_FILE: %w", err)
	}
	return parseColumnMap(data, base)
}

func parseColumnMap(data []byte, base domain.Schema) (domain.Schema, error) {
	var f columnMapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Schema{}, fmt.Errorf("parse COLUMN_MAP_FILE: %w", err)
	}

	if err := validator.New().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Schema{}, fmt.Errorf("invalid COLUMN_MAP_FILE: field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return domain.Schema{}, fmt.Errorf("invalid COLUMN_MAP_FILE: %w", err)
	}

	extra := make(map[domain.Column][]string, len(f.Columns))
	for _, c := range f.Columns {
		col := domain.Column(c.Column)
		extra[col] = append(extra[col], c.Aliases...)
	}
	return base.WithAliases(extra)
}
