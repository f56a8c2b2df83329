package menu

import "context"

// Kind identifies the variant of a Node.
type Kind string

const (
	KindSeparator Kind = "separator"
	KindAction    Kind = "action"
	KindCheckbox  Kind = "checkbox"
	KindRadio     Kind = "radio"
	KindSubmenu   Kind = "submenu"
)

// Role names an action the native host implements itself.
type Role string

const (
	RoleAbout            Role = "about"
	RoleHide             Role = "hide"
	RoleHideOthers       Role = "hideOthers"
	RoleUnhide           Role = "unhide"
	RoleSelectAll        Role = "selectAll"
	RoleCut              Role = "cut"
	RoleCopy             Role = "copy"
	RolePaste            Role = "paste"
	RoleMinimize         Role = "minimize"
	RoleClose            Role = "close"
	RoleQuit             Role = "quit"
	RoleReload           Role = "reload"
	RoleForceReload      Role = "forceReload"
	RoleZoomIn           Role = "zoomIn"
	RoleZoomOut          Role = "zoomOut"
	RoleResetZoom        Role = "resetZoom"
	RoleToggleFullscreen Role = "togglefullscreen"
	RoleToggleDevTools   Role = "toggleDevTools"
)

// Handler is invoked when the installed item is clicked. For checkbox and
// radio items the item's Checked field already holds the new state.
type Handler func(ctx context.Context, item *Item) error

// Node is one entry of a declarative menu tree.
type Node struct {
	Kind        Kind
	Label       string
	Checked     bool
	Group       string
	Role        Role
	Accelerator string
	Handler     Handler
	Children    []Node
}

// Separator returns a separator node.
func Separator() Node {
	return Node{Kind: KindSeparator}
}

// Action returns a plain clickable node.
func Action(label string, h Handler) Node {
	return Node{Kind: KindAction, Label: label, Handler: h}
}

// Checkbox returns a toggle node.
func Checkbox(label string, checked bool, h Handler) Node {
	return Node{Kind: KindCheckbox, Label: label, Checked: checked, Handler: h}
}

// Radio returns a node that belongs to the mutually exclusive group.
func Radio(group, label string, checked bool, h Handler) Node {
	return Node{Kind: KindRadio, Group: group, Label: label, Checked: checked, Handler: h}
}

// Submenu returns a node holding children.
func Submenu(label string, children ...Node) Node {
	return Node{Kind: KindSubmenu, Label: label, Children: children}
}

// RoleItem returns an action node the host renders and performs itself.
func RoleItem(role Role, label string) Node {
	return Node{Kind: KindAction, Role: role, Label: label}
}

// WithAccelerator returns a copy of n bound to the key combination.
func (n Node) WithAccelerator(acc string) Node {
	n.Accelerator = acc
	return n
}
