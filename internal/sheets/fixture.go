package sheets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture seeds a MemoryGateway from YAML:
//
//	tables:
//	  Utilisateurs LaCroixglorieuse:
//	    - [Email, Mot_de_Passe_Haché, Date_Inscription]
//	  Contenu Carême LaCroixglorieuse:
//	    - [Date, Jour, URL_Image, Texte_Cure_dArs, Citation_Parole, Effort_Jour]
//	    - ["2025-03-05", Mercredi des Cendres, "", ..., ..., ...]
//	denied: [Some Workbook]
type Fixture struct {
	Tables map[string][][]string `yaml:"tables"`
	Denied []string              `yaml:"denied"`
}

func ParseFixture(data []byte) (*MemoryGateway, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sheets fixture: %w", err)
	}

	g := NewMemoryGateway()
	for name, rows := range f.Tables {
		g.AddTable(name, rows...)
	}
	for _, name := range f.Denied {
		g.FailOpen(name, ErrPermissionDenied)
	}

	return g, nil
}

// LoadFixture reads a fixture file. A missing file yields an empty gateway.
func LoadFixture(path string) (*MemoryGateway, error) {
	if path == "" {
		return NewMemoryGateway(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewMemoryGateway(), nil
	}
	if err != nil {
		return nil, err
	}

	return ParseFixture(data)
}
