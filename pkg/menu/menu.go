package menu

import (
	"strconv"
)

// Menu represents the installed root menu structure.
type Menu struct {
	// Title of the application, used for the unified app submenu.
	Title string `json:"title"`

	// Version of the application
	Version string `json:"version,omitempty"`

	// Revision increases every time a menu is installed.
	Revision uint64 `json:"revision"`

	// Items is the list of top-level menu items
	Items []*Item `json:"items,omitempty"`

	index map[string]*Item
}

// newMenu converts the declarative tree into its native representation,
// assigning every item an ID derived from its position.
func newMenu(title, version string, nodes []Node) *Menu {
	m := &Menu{
		Title:   title,
		Version: version,
		index:   make(map[string]*Item),
	}
	m.Items = m.convert("", nodes)
	return m
}

func (m *Menu) convert(parent string, nodes []Node) []*Item {
	items := make([]*Item, 0, len(nodes))
	for i, n := range nodes {
		item := &Item{
			ID:          parent + "/" + strconv.Itoa(i),
			Type:        n.Kind,
			Label:       n.Label,
			Checked:     n.Checked,
			Group:       n.Group,
			Role:        n.Role,
			Accelerator: n.Accelerator,
			handler:     n.Handler,
		}
		if n.Kind == KindRadio && item.Group == "" {
			// ungrouped radios form a group with their siblings
			item.Group = parent
		}
		if len(n.Children) > 0 {
			item.Items = m.convert(item.ID, n.Children)
		}
		m.index[item.ID] = item
		items = append(items, item)
	}
	return items
}

// Lookup returns the installed item with the given ID.
func (m *Menu) Lookup(id string) (*Item, bool) {
	item, ok := m.index[id]
	return item, ok
}

// group returns every radio item in the menu that shares the group.
func (m *Menu) group(name string) []*Item {
	var out []*Item
	for _, item := range m.index {
		if item.Type == KindRadio && item.Group == name {
			out = append(out, item)
		}
	}
	return out
}

// appSubmenu is the application submenu hosts with a unified menu bar
// expect in front of everything else.
func appSubmenu(title string) Node {
	return Submenu(title,
		RoleItem(RoleAbout, ""),
		Separator(),
		RoleItem(RoleHide, ""),
		RoleItem(RoleHideOthers, ""),
		RoleItem(RoleUnhide, ""),
		Separator(),
		RoleItem(RoleSelectAll, ""),
		RoleItem(RoleCut, ""),
		RoleItem(RoleCopy, ""),
		RoleItem(RolePaste, ""),
		Separator(),
		RoleItem(RoleMinimize, ""),
		RoleItem(RoleClose, ""),
		RoleItem(RoleQuit, ""),
	)
}
