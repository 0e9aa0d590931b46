package calendar

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed holidays/*.yaml
var builtinHolidays embed.FS

// HolidayFile is the on-disk closure table: weekday closures listed per year.
// A year present with an empty list means "covered, no closures".
type HolidayFile struct {
	Exchange string           `yaml:"exchange"`
	Years    map[int][]string `yaml:"years"`
}

// ParseHolidayFile decodes a YAML closure table
func ParseHolidayFile(data []byte) (HolidayFile, error) {
	var f HolidayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return HolidayFile{}, fmt.Errorf("failed to parse holiday file: %w", err)
	}
	return f, nil
}

// LoadHolidayFile reads and decodes a YAML closure table from disk
func LoadHolidayFile(path string) (HolidayFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HolidayFile{}, fmt.Errorf("failed to read holiday file %s: %w", path, err)
	}
	return ParseHolidayFile(data)
}

// BuiltinHolidays returns the closure table shipped with the binary
func BuiltinHolidays() (HolidayFile, error) {
	data, err := builtinHolidays.ReadFile("holidays/xshg.yaml")
	if err != nil {
		return HolidayFile{}, fmt.Errorf("failed to read builtin holidays: %w", err)
	}
	return ParseHolidayFile(data)
}
