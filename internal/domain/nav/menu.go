package nav

import (
	_ "embed"
	"fmt"

	"github.com/linskybing/csdesk/internal/domain/user"
	"gopkg.in/yaml.v2"
)

//go:embed menu.yaml
var menuYAML []byte

type MenuItem struct {
	Label     string `yaml:"label" json:"label"`
	Href      string `yaml:"href" json:"href"`
	Icon      string `yaml:"icon" json:"icon"`
	AdminOnly bool   `yaml:"admin_only" json:"admin_only"`
	Active    bool   `yaml:"-" json:"active"`
}

// Parse decodes a menu definition. The order of entries is preserved.
func Parse(data []byte) ([]MenuItem, error) {
	var items []MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	for i, it := range items {
		if it.Label == "" || it.Href == "" {
			return nil, fmt.Errorf("menu entry %d: label and href are required", i)
		}
	}
	return items, nil
}

// Default returns the built-in menu.
func Default() []MenuItem {
	items, err := Parse(menuYAML)
	if err != nil {
		panic(err)
	}
	return items
}

// Filter drops admin-only entries unless role is admin and marks the entry
// matching currentPath as active. The input slice is not modified.
func Filter(items []MenuItem, role user.Role, currentPath string) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.AdminOnly && role != user.RoleAdmin {
			continue
		}
		it.Active = it.Href == currentPath
		out = append(out, it)
	}
	return out
}
