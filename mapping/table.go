package mapping

import (
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/usageload/core"
	"gopkg.in/yaml.v3"
)

// Table is a static mapping from output paths to input columns.
type Table struct {
	IDColumn string              `yaml:"id_column"`
	Fields   []core.FieldMapping `yaml:"fields"`
}

// DefaultTable returns the mapping for the user behaviour dataset:
//
//	{ _id, age, gender,
//	  device_info: { device_model, operating_system },
//	  usage_metrics: { app_usage_time, screen_on_time, battery_drain,
//	                   apps_installed, data_usage },
//	  behavior_class }
func DefaultTable() *Table {
	return &Table{
		IDColumn: "User ID",
		Fields: []core.FieldMapping{
			{Path: "age", Column: "Age"},
			{Path: "gender", Column: "Gender"},
			{Path: "device_info.device_model", Column: "Device Model"},
			{Path: "device_info.operating_system", Column: "Operating System"},
			{Path: "usage_metrics.app_usage_time", Column: "App Usage Time (min/day)"},
			{Path: "usage_metrics.screen_on_time", Column: "Screen On Time (hours/day)"},
			{Path: "usage_metrics.battery_drain", Column: "Battery Drain (mAh/day)"},
			{Path: "usage_metrics.apps_installed", Column: "Number of Apps Installed"},
			{Path: "usage_metrics.data_usage", Column: "Data Usage (MB/day)"},
			{Path: "behavior_class", Column: "User Behavior Class"},
		},
	}
}

// LoadTable reads a Table from a YAML file and validates it.
//
// Example:
//
//	id_column: User ID
//	fields:
//	  - path: device_info.device_model
//	    column: Device Model
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every path is well formed and bound once, and that
// no path is used both as a scalar and as a group.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.IDColumn) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTable, ErrEmptyIDColumn)
	}

	kinds := make(map[string]bool) // path -> true if group
	for _, f := range t.Fields {
		if f.Column == "" {
			return fmt.Errorf("%w: path %q has no column", ErrInvalidTable, f.Path)
		}
		parts := strings.Split(f.Path, ".")
		if parts[0] == core.IDField {
			return fmt.Errorf("%w: path %q collides with %s", ErrInvalidTable, f.Path, core.IDField)
		}
		for i, part := range parts {
			if part == "" {
				return fmt.Errorf("%w: malformed path %q", ErrInvalidTable, f.Path)
			}
			prefix := strings.Join(parts[:i+1], ".")
			isGroup := i < len(parts)-1
			seenGroup, seen := kinds[prefix]
			switch {
			case !seen:
				kinds[prefix] = isGroup
			case !isGroup && !seenGroup:
				return fmt.Errorf("%w: duplicate path %q", ErrInvalidTable, f.Path)
			case isGroup != seenGroup:
				return fmt.Errorf("%w: path %q used as both field and group", ErrInvalidTable, prefix)
			}
		}
	}
	return nil
}
