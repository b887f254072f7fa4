package packrat

const initialMemoSize = 64

type slotState uint8

const (
	slotReserved slotState = iota
	slotResolved
	slotFailed
)

func (s slotState) String() string {
	switch s {
	case slotResolved:
		return "resolved"
	case slotFailed:
		return "failed"
	default:
		return "reserved"
	}
}

type slot struct {
	id    uint64
	state slotState
	value any
	after int
}

// column holds the outcomes of every symbol tried at one input position.
// Few symbols are tried per position, so lookup is a linear scan.
type column struct {
	slots []slot
}

func (c *column) find(id uint64) int {
	for i := range c.slots {
		if c.slots[i].id == id {
			return i
		}
	}

	return -1
}

func (c *column) reserve(id uint64) int {
	c.slots = append(c.slots, slot{id: id})

	return len(c.slots) - 1
}

func (c *column) resolve(i int, value any, after int) {
	c.slots[i].state = slotResolved
	c.slots[i].value = value
	c.slots[i].after = after
}

func (c *column) fail(i int) {
	c.slots[i].state = slotFailed
	c.slots[i].value = nil
}

// memo maps input positions to columns, growing as the cursor advances.
type memo struct {
	columns []*column
}

func (m *memo) at(pos int) *column {
	if pos >= len(m.columns) {
		size := max(initialMemoSize, len(m.columns)+len(m.columns)/2, pos+1)
		grown := make([]*column, size)
		copy(grown, m.columns)
		m.columns = grown
	}

	c := m.columns[pos]
	if c == nil {
		c = &column{}
		m.columns[pos] = c
	}

	return c
}
