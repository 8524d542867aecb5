package canframe

import (
	"fmt"
	"slices"
)

// muxEdge keys a child node by the multiplexer signal and the id selecting it.
type muxEdge struct {
	signal string
	id     int64
}

// codecNode holds one set of co-resident signals and how to pack them.
type codecNode struct {
	signals      []*Signal
	big          program
	little       program
	multiplexers []int // indexes into signals
	children     map[muxEdge]int
}

// codecTree is the arena of nodes for one message. Index 0 is the root.
// It is never modified after buildTree returns.
type codecTree struct {
	message string
	length  int
	nodes   []codecNode
}

type owner struct {
	name string
	bits []byte
}

// buildTree partitions signals into the root node and its multiplexed
// descendants, compiling every node's programs.
func buildTree(message string, signals []*Signal, length int) (*codecTree, error) {
	totalBits := length * 8
	for _, s := range signals {
		if err := checkLayout(message, s, totalBits); err != nil {
			return nil, err
		}
	}

	type pending struct {
		index  int
		parent string
		id     int64
		owners []owner // bits taken by ancestors
	}

	t := &codecTree{message: message, length: length, nodes: make([]codecNode, 1)}
	queue := []pending{{index: 0}}
	placed := make(map[string]bool, len(signals))

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		var node codecNode
		for _, s := range signals {
			if p.parent == "" && s.MultiplexerSignal == "" || p.parent != "" && s.selectedBy(p.parent, p.id) {
				node.signals = append(node.signals, s)
			}
		}

		var err error
		if node.big, err = compileBig(message, node.signals, totalBits); err != nil {
			return nil, err
		}
		if node.little, err = compileLittle(message, node.signals, totalBits); err != nil {
			return nil, err
		}

		owners := p.owners
		for _, s := range node.signals {
			bits := occupancy(s, length)
			for _, o := range owners {
				if intersects(o.bits, bits) {
					return nil, &ConfigurationError{
						Message: message,
						Signal:  s.Name,
						Reason:  fmt.Sprintf("overlaps signal %q", o.name),
					}
				}
			}
			owners = append(owners, owner{name: s.Name, bits: bits})
			placed[s.Name] = true
		}
		owners = slices.Clip(owners)

		for i, s := range node.signals {
			if !s.IsMultiplexer {
				continue
			}
			ids := childIDs(s, signals)
			if len(ids) == 0 {
				continue
			}
			if node.children == nil {
				node.children = make(map[muxEdge]int)
			}
			node.multiplexers = append(node.multiplexers, i)
			for _, id := range ids {
				child := len(t.nodes)
				t.nodes = append(t.nodes, codecNode{})
				node.children[muxEdge{signal: s.Name, id: id}] = child
				queue = append(queue, pending{index: child, parent: s.Name, id: id, owners: owners})
			}
		}
		if err := checkSiblingMultiplexers(message, &node, signals, length); err != nil {
			return nil, err
		}
		t.nodes[p.index] = node
	}

	for _, s := range signals {
		if !placed[s.Name] {
			return nil, &ConfigurationError{
				Message: message,
				Signal:  s.Name,
				Reason: fmt.Sprintf("not reachable from the top level (multiplexer %q, ids %v)",
					s.MultiplexerSignal, s.MultiplexerIDs),
			}
		}
	}
	return t, nil
}

// checkSiblingMultiplexers rejects multiplexers of one node whose signal
// groups can cover the same bit, since both branches are encoded together.
func checkSiblingMultiplexers(message string, node *codecNode, signals []*Signal, length int) error {
	if len(node.multiplexers) < 2 {
		return nil
	}
	groups := make([]owner, 0, len(node.multiplexers))
	for _, i := range node.multiplexers {
		mux := node.signals[i]
		bits := make([]byte, length)
		groupBits(bits, mux, signals, length, make(map[string]bool))
		for _, g := range groups {
			if intersects(g.bits, bits) {
				return &ConfigurationError{
					Message: message,
					Signal:  mux.Name,
					Reason:  fmt.Sprintf("signal groups overlap those of multiplexer %q", g.name),
				}
			}
		}
		groups = append(groups, owner{name: mux.Name, bits: bits})
	}
	return nil
}

// groupBits ORs into bits every bit a signal group below mux can cover,
// nested groups included.
func groupBits(bits []byte, mux *Signal, signals []*Signal, length int, seen map[string]bool) {
	if seen[mux.Name] {
		return
	}
	seen[mux.Name] = true
	for _, s := range signals {
		if s.MultiplexerSignal != mux.Name || len(s.MultiplexerIDs) == 0 {
			continue
		}
		orInto(bits, occupancy(s, length))
		if s.IsMultiplexer {
			groupBits(bits, s, signals, length, seen)
		}
	}
}

// childIDs collects the ids selecting a group under mux, including ids that
// only appear as mux choices.
func childIDs(mux *Signal, signals []*Signal) []int64 {
	var ids []int64
	for _, s := range signals {
		if s.MultiplexerSignal == mux.Name {
			ids = append(ids, s.MultiplexerIDs...)
		}
	}
	for id := range mux.Choices {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// TreeNode is one entry of a message's signal tree. Multiplexed is set for
// multiplexer signals and maps each id to the signals it selects.
type TreeNode struct {
	Name        string
	Multiplexed map[int64][]TreeNode
}

func (t *codecTree) view(index int) []TreeNode {
	node := &t.nodes[index]
	out := make([]TreeNode, 0, len(node.signals))
	for _, s := range node.signals {
		tn := TreeNode{Name: s.Name}
		for edge, child := range node.children {
			if edge.signal != s.Name {
				continue
			}
			if tn.Multiplexed == nil {
				tn.Multiplexed = make(map[int64][]TreeNode)
			}
			tn.Multiplexed[edge.id] = t.view(child)
		}
		out = append(out, tn)
	}
	return out
}
