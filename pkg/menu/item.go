package menu

// Item represents an installed menu item as the native host renders it.
type Item struct {
	// ID is the position-derived identifier the host posts back on click.
	ID string `json:"id"`

	// Type is the variant of the item.
	Type Kind `json:"type"`

	// Label is the text displayed by the host.
	Label string `json:"label,omitempty"`

	// Checked is the visual state of checkbox and radio items.
	Checked bool `json:"checked,omitempty"`

	// Group names the radio group this item belongs to.
	Group string `json:"group,omitempty"`

	// Role is a built-in action the host performs without a round trip.
	Role Role `json:"role,omitempty"`

	// Accelerator is the keyboard shortcut, e.g. "Ctrl+I".
	Accelerator string `json:"accelerator,omitempty"`

	// Items are the sub-items of this menu item.
	Items []*Item `json:"items,omitempty"`

	// handler is not serialized to JSON.
	handler Handler
}

// Clickable reports whether the item has a handler attached.
func (i *Item) Clickable() bool {
	return i.handler != nil
}
