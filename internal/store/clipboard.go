package store

import (
	"slices"

	"weekcal/internal/model"
)

// Clipboard holds value copies of tasks for pasting onto other days.
type Clipboard struct {
	items []model.TaskItem
}

// Copy replaces the clipboard content with copies of items.
func (c *Clipboard) Copy(items []model.TaskItem) {
	c.items = make([]model.TaskItem, 0, len(items))
	for _, it := range items {
		it.ID = ""
		c.items = append(c.items, it)
	}
}

// Paste adds fresh copies of the clipboard tasks to date. The clipboard keeps
// its content, so the same tasks can be pasted again.
func (c *Clipboard) Paste(s *Store, date model.Date) []model.TaskItem {
	return s.AddAll(date, c.Items())
}

// Items returns a copy of the clipboard content.
func (c *Clipboard) Items() []model.TaskItem {
	return slices.Clone(c.items)
}

func (c *Clipboard) Len() int {
	return len(c.items)
}
