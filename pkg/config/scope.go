package config

// Scope reads and writes options below a fixed prefix, such as the
// settings of a single plugin.
type Scope struct {
	store  *Store
	prefix string
}

func (c *Scope) key(path string) string {
	return c.prefix + "." + path
}

// Bool returns the boolean at prefix.path.
func (c *Scope) Bool(path string) bool {
	return c.store.Bool(c.key(path))
}

// String returns the string at prefix.path.
func (c *Scope) String(path string) string {
	return c.store.String(c.key(path))
}

// Set writes value at prefix.path.
func (c *Scope) Set(path string, value any) error {
	return c.store.Set(c.key(path), value)
}
