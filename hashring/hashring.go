package hashring

import (
	"errors"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"sync"
)

// ErrEmptyRing is returned by lookups on a ring that holds no positions.
var ErrEmptyRing = errors.New("hashring: ring has no nodes")

// Node represents a physical node in the cluster.
// Common examples:
//   - "127.0.0.1:8081"
//   - "cache-a"
//   - "shard-3"
type Node string

// HashRing implements a consistent hashing ring with virtual nodes.
//
// Every physical node is expanded into replicas virtual nodes. Replica i of
// node n is placed at hash(strconv.Itoa(i) + n). A key belongs to the first
// position clockwise from its own hash, wrapping to the smallest position.
//
// The ring is meant to be built once and then read. Lookups never mutate
// it and may run from many goroutines.
type HashRing struct {
	mu sync.RWMutex

	hasher  Hasher
	metrics *Metrics
	logger  *slog.Logger

	// replicas is the number of virtual nodes per physical node
	replicas int

	// nodes tracks every physical node that was added
	nodes map[Node]struct{}

	// ring holds sorted, unique hash positions
	ring []uint64

	// owners maps each position to its physical node
	owners map[uint64]Node
}

// Option configures a HashRing during construction.
type Option func(*HashRing)

// WithHasher replaces the default xxHash strategy.
func WithHasher(h Hasher) Option {
	return func(r *HashRing) {
		if h != nil {
			r.hasher = h
		}
	}
}

// WithMetrics reports ring layout and lookups to m.
func WithMetrics(m *Metrics) Option {
	return func(r *HashRing) {
		r.metrics = m
	}
}

// WithLogger sets the logger used for collision diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *HashRing) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty ring that places replicas virtual nodes per physical
// node. A replication factor of 0 (or less) leaves added nodes without any
// position, so they can never be selected.
func New(replicas int, opts ...Option) *HashRing {
	h := &HashRing{
		hasher:   XXHash,
		logger:   slog.Default(),
		replicas: max(replicas, 0),
		nodes:    make(map[Node]struct{}),
		owners:   make(map[uint64]Node),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HashRing) hash(key string) uint64 {
	return h.hasher.Sum64([]byte(key))
}

// AddNodes places the virtual nodes of every given node on the ring.
//
// Positions that collide with an existing one take the new owner. Adding the
// same node twice with the same replication factor changes nothing.
func (h *HashRing) AddNodes(nodes ...Node) {
	h.mu.Lock()
	defer h.mu.Unlock()

	collisions := 0
	for _, n := range nodes {
		h.nodes[n] = struct{}{}

		for i := 0; i < h.replicas; i++ {
			// Virtual node identity: <index><node>
			point := h.hash(strconv.Itoa(i) + string(n))

			prev, exists := h.owners[point]
			if !exists {
				h.ring = append(h.ring, point)
			} else if prev != n {
				collisions++
				h.logger.Debug("hashring: position collision",
					"position", point, "previous", prev, "owner", n)
			}
			h.owners[point] = n
		}
	}

	slices.Sort(h.ring)

	h.metrics.observeLayout(len(h.ring), len(h.nodes), collisions)
}

// search returns the index of the first position >= point, wrapping to 0.
// The caller must ensure the ring is not empty.
func (h *HashRing) search(point uint64) int {
	i := sort.Search(len(h.ring), func(i int) bool {
		return h.ring[i] >= point
	})
	if i == len(h.ring) {
		i = 0
	}
	return i
}

// SelectNode returns the node responsible for key: the owner of the first
// position clockwise from the key's hash. It returns ErrEmptyRing when no
// node owns a position.
func (h *HashRing) SelectNode(key string) (Node, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.ring) == 0 {
		h.metrics.observeLookup(lookupEmpty)
		return "", ErrEmptyRing
	}

	h.metrics.observeLookup(lookupHit)
	return h.owners[h.ring[h.search(h.hash(key))]], nil
}

// SelectNodes returns up to n distinct nodes for key, starting with the
// SelectNode owner and continuing clockwise. Duplicates caused by virtual
// nodes are skipped. The result never holds more nodes than own positions.
func (h *HashRing) SelectNodes(key string, n int) ([]Node, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.ring) == 0 {
		h.metrics.observeLookup(lookupEmpty)
		return nil, ErrEmptyRing
	}
	h.metrics.observeLookup(lookupHit)
	if n <= 0 {
		return nil, nil
	}

	nodes := make([]Node, 0, min(n, len(h.nodes)))
	seen := make(map[Node]struct{})

	i := h.search(h.hash(key))
	for step := 0; step < len(h.ring) && len(nodes) < n; step++ {
		owner := h.owners[h.ring[i]]
		if _, ok := seen[owner]; !ok {
			seen[owner] = struct{}{}
			nodes = append(nodes, owner)
		}
		i = (i + 1) % len(h.ring)
	}

	return nodes, nil
}

// Nodes returns every physical node added so far, sorted.
func (h *HashRing) Nodes() []Node {
	h.mu.RLock()
	defer h.mu.RUnlock()

	nodes := make([]Node, 0, len(h.nodes))
	for n := range h.nodes {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

// Positions returns a copy of the sorted ring positions.
func (h *HashRing) Positions() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.ring)
}

// Owner reports the physical node that owns position.
func (h *HashRing) Owner(position uint64) (Node, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, ok := h.owners[position]
	return n, ok
}

// Len returns the number of positions on the ring.
func (h *HashRing) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.ring)
}

// Replicas returns the replication factor the ring was built with.
func (h *HashRing) Replicas() int {
	return h.replicas
}
