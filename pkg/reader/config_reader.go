package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tosih/ecux-analyzer/pkg/models"
)

// ReadProfile loads a YAML profile. Keys missing from the file keep their
// default values.
func ReadProfile(filename string) (models.Profile, error) {
	p := models.DefaultProfile()

	data, err := os.ReadFile(filename)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", filepath.Base(filename), err)
	}
	applyDefaults(&p, filename)
	return p, nil
}

// WriteProfile stores p as YAML.
func WriteProfile(filename string, p models.Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// applyDefaults replaces values the formulas cannot work with.
func applyDefaults(p *models.Profile, filename string) {
	def := models.DefaultProfile()
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if p.Env.Car.RPMPerMPH <= 0 {
		p.Env.Car.RPMPerMPH = def.Env.Car.RPMPerMPH
	}
	if p.Env.Car.Mass <= 0 {
		p.Env.Car.Mass = def.Env.Car.Mass
	}
	if p.Env.Fuel.Cylinders <= 0 {
		p.Env.Fuel.Cylinders = def.Env.Fuel.Cylinders
	}
	if p.Env.Fuel.Turbos <= 0 {
		p.Env.Fuel.Turbos = def.Env.Fuel.Turbos
	}
	if p.Env.SAE.Correction <= 0 {
		p.Env.SAE.Correction = 1
	}
	if p.Env.PID.TimeConstant <= 0 {
		p.Env.PID.TimeConstant = def.Env.PID.TimeConstant
	}
	if p.Env.PID.I <= 0 {
		p.Env.PID.I = def.Env.PID.I
	}
	if p.Filter.HPTQMAW <= 0 {
		p.Filter.HPTQMAW = def.Filter.HPTQMAW
	}
	if p.Filter.ZeitMAW <= 0 {
		p.Filter.ZeitMAW = def.Filter.ZeitMAW
	}
}
