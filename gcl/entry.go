package gcl

// EntryKind distinguishes a whole-port entry from a single-queue entry
// (spec §4.G Entry::Port / Entry::Queue).
type EntryKind uint8

const (
	EntryPort EntryKind = iota
	EntryQueue
)

// Entry addresses either the port-level map of an edge, or one of its
// NumQueues per-queue maps.
type Entry struct {
	Kind  EntryKind
	Edge  int
	Queue int // meaningful only when Kind == EntryQueue
}

// Port builds an Entry addressing edge's port map.
func Port(edge int) Entry { return Entry{Kind: EntryPort, Edge: edge} }

// Queue builds an Entry addressing queue q of edge's per-queue maps.
func Queue(edge, q int) Entry { return Entry{Kind: EntryQueue, Edge: edge, Queue: q} }
