package tasklist

import "github.com/ChequeMan/FRONTTODOList/internal/service"

// Collection is an insertion-ordered set of tasks, unique by ID. The order
// slice and the ID index are tracked separately so that replacing a task in
// place never disturbs its position.
type Collection struct {
	order []string
	byID  map[string]service.Task
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]service.Task)}
}

// Replace discards the current contents and adopts tasks in the given
// order. A duplicate ID keeps its first position and takes the last record.
func (c *Collection) Replace(tasks []service.Task) {
	c.order = c.order[:0]
	c.byID = make(map[string]service.Task, len(tasks))
	for _, t := range tasks {
		if _, ok := c.byID[t.ID]; !ok {
			c.order = append(c.order, t.ID)
		}
		c.byID[t.ID] = t
	}
}

// Append adds a task at the end. A task with an existing ID replaces the
// stored record in place instead.
func (c *Collection) Append(t service.Task) {
	if _, ok := c.byID[t.ID]; !ok {
		c.order = append(c.order, t.ID)
	}
	c.byID[t.ID] = t
}

// Set replaces the task with the same ID in place, reporting whether a
// match existed. A miss leaves the collection untouched.
func (c *Collection) Set(t service.Task) bool {
	if _, ok := c.byID[t.ID]; !ok {
		return false
	}
	c.byID[t.ID] = t
	return true
}

// Remove deletes the task with the given ID, reporting whether it existed.
func (c *Collection) Remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the task with the given ID.
func (c *Collection) Get(id string) (service.Task, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// At returns the task at 0-based position i.
func (c *Collection) At(i int) (service.Task, bool) {
	if i < 0 || i >= len(c.order) {
		return service.Task{}, false
	}
	return c.byID[c.order[i]], true
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.order)
}

// Tasks returns the tasks in insertion order.
func (c *Collection) Tasks() []service.Task {
	tasks := make([]service.Task, 0, len(c.order))
	for _, id := range c.order {
		tasks = append(tasks, c.byID[id])
	}
	return tasks
}
