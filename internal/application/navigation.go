package application

import (
	"github.com/linskybing/csdesk/internal/domain/nav"
	"github.com/linskybing/csdesk/internal/domain/user"
)

type NavigationService struct {
	items []nav.MenuItem
}

func NewNavigationService(items []nav.MenuItem) *NavigationService {
	if items == nil {
		items = nav.Default()
	}
	return &NavigationService{items: items}
}

// Menu returns the sidebar entries visible to role, marking currentPath active.
func (s *NavigationService) Menu(role user.Role, currentPath string) []nav.MenuItem {
	return nav.Filter(s.items, role, currentPath)
}
