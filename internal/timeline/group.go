package timeline

import (
	"sort"

	"github.com/lowitz/planview/internal/record"
)

// BlockKind identifies the kind of container a flat item list came from;
// it only changes whether parent grouping applies.
type BlockKind int

const (
	BlockRoot  BlockKind = iota // top-level day sections
	BlockList                   // plain list (due / all-day)
	BlockSlot                   // a timed bucket
	BlockEvent                  // items attached to an event
	BlockChild                  // already inside a parent's children
)

// HeadKind tags the provenance of an entry head: a real record from the
// input list, or a placeholder synthesized for a parent outside it.
type HeadKind int

const (
	HeadReal HeadKind = iota
	HeadSynthetic
)

// Leaf is a single renderable item. AsLink marks items rendered as a
// reference back to their source rather than an editable row.
type Leaf struct {
	Task   record.Task
	AsLink bool
}

// Entry is one parent bucket inside a heading group: a head (real task or
// synthesized ancestor) plus the children nested under it. Plain items are
// entries with no children.
type Entry struct {
	Kind     HeadKind
	Task     record.Task
	AsLink   bool
	Children []Leaf
}

// Key returns the collapse key for the entry.
func (e Entry) Key() string { return e.Task.Path + "#" + e.Task.ID }

// HeadingGroup is the items sharing one sub-grouping label. An empty
// Heading is the distinguished "ungrouped" bucket, sorted last.
type HeadingGroup struct {
	Heading string
	Path    string
	Entries []Entry
}

// AreaGroup is the items sharing one top-level grouping label.
type AreaGroup struct {
	Area     string
	Headings []HeadingGroup
}

// GroupItems nests a flat item list into area → heading → parent groups
// with a stable, deterministic order. table is the full task table, used to
// resolve the record of a parent that is outside the input list; nominal is
// the bucket's nominal scheduled time, used for the shown-early link rule.
//
// Inside a child context the whole list is treated as one parent bucket and
// parent grouping is skipped.
func GroupItems(items []record.Task, table map[string]record.Task, block BlockKind, nominal string) []AreaGroup {
	entries := buildEntries(items, table, block, nominal)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Task.Position < entries[j].Task.Position
	})

	// Area split, lexical.
	byArea := make(map[string][]Entry)
	var areas []string
	for _, e := range entries {
		if _, ok := byArea[e.Task.Area]; !ok {
			areas = append(areas, e.Task.Area)
		}
		byArea[e.Task.Area] = append(byArea[e.Task.Area], e)
	}
	sort.Strings(areas)

	out := make([]AreaGroup, 0, len(areas))
	for _, area := range areas {
		out = append(out, AreaGroup{
			Area:     area,
			Headings: groupHeadings(byArea[area]),
		})
	}
	return out
}

func buildEntries(items []record.Task, table map[string]record.Task, block BlockKind, nominal string) []Entry {
	if block == BlockChild {
		// Already nested under a parent: one flat bucket, no regrouping.
		entries := make([]Entry, 0, len(items))
		for _, t := range items {
			entries = append(entries, Entry{Kind: HeadReal, Task: t, AsLink: renderAsLink(t, nominal)})
		}
		return entries
	}

	inInput := make(map[string]record.Task, len(items))
	for _, t := range items {
		inInput[t.ID] = t
	}

	childrenOf := make(map[string][]record.Task)
	var parentOrder []string
	var entries []Entry

	for _, t := range items {
		if t.ParentID == "" {
			entries = append(entries, Entry{Kind: HeadReal, Task: t, AsLink: renderAsLink(t, nominal)})
			continue
		}
		if _, ok := childrenOf[t.ParentID]; !ok {
			parentOrder = append(parentOrder, t.ParentID)
		}
		childrenOf[t.ParentID] = append(childrenOf[t.ParentID], t)
	}

	for _, pid := range parentOrder {
		children := childrenOf[pid]
		sortTasks(children)

		leaves := make([]Leaf, 0, len(children))
		for _, c := range children {
			leaves = append(leaves, Leaf{Task: c, AsLink: renderAsLink(c, nominal)})
		}

		if parent, ok := inInput[pid]; ok {
			// The parent is itself in scope: children nest under it and are
			// suppressed as root items.
			entries = append(entries, Entry{
				Kind:     HeadReal,
				Task:     parent,
				AsLink:   renderAsLink(parent, nominal),
				Children: leaves,
			})
			continue
		}

		entries = append(entries, Entry{
			Kind:     HeadSynthetic,
			Task:     syntheticParent(pid, children[0], table),
			AsLink:   true,
			Children: leaves,
		})
	}

	// An item can surface twice: as a root entry that doubled as a nested
	// parent, or as a leaf under a synthetic ancestor while heading its own
	// entry. Each task renders exactly once, preferring the entry with its
	// children.
	return dedupeHeads(entries)
}

// syntheticParent builds the placeholder head for a parent id outside the
// input list: the real record's fields when the table still has it, else
// area/heading/position inherited from a representative child.
func syntheticParent(pid string, child record.Task, table map[string]record.Task) record.Task {
	head := record.Task{
		ID:       pid,
		Text:     pid,
		Area:     child.Area,
		Heading:  child.Heading,
		Path:     child.Path,
		Position: child.Position,
		Kind:     record.KindParent,
	}
	if real, ok := table[pid]; ok {
		head.Text = real.Text
		head.Path = real.Path
		head.Scheduled = real.Scheduled
		head.Due = real.Due
	}
	return head
}

func dedupeHeads(entries []Entry) []Entry {
	withChildren := make(map[string]bool)
	for _, e := range entries {
		if len(e.Children) > 0 {
			withChildren[e.Task.ID] = true
		}
	}
	out := entries[:0:0]
	for _, e := range entries {
		if len(e.Children) == 0 && withChildren[e.Task.ID] {
			continue
		}
		if len(e.Children) > 0 {
			kept := e.Children[:0:0]
			for _, leaf := range e.Children {
				if withChildren[leaf.Task.ID] {
					continue
				}
				kept = append(kept, leaf)
			}
			e.Children = kept
			// A placeholder that lost all its leaves has nothing left to say.
			if len(e.Children) == 0 && e.Kind == HeadSynthetic {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func groupHeadings(entries []Entry) []HeadingGroup {
	byHeading := make(map[string]*HeadingGroup)
	var order []string
	for _, e := range entries {
		h := e.Task.Heading
		g := byHeading[h]
		if g == nil {
			g = &HeadingGroup{Heading: h, Path: e.Task.Path}
			byHeading[h] = g
			order = append(order, h)
		}
		g.Entries = append(g.Entries, e)
	}

	groups := make([]HeadingGroup, 0, len(order))
	for _, h := range order {
		groups = append(groups, *byHeading[h])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		// The ungrouped bucket always sorts last.
		if (a.Heading == "") != (b.Heading == "") {
			return b.Heading == ""
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Entries[0].Task.Position < b.Entries[0].Task.Position
	})
	return groups
}

// renderAsLink implements the leaf rendering rule: parents and links are
// always references, and so is an item whose real slot is later than the
// bucket it is shown in.
func renderAsLink(t record.Task, nominal string) bool {
	if t.Kind == record.KindParent || t.Kind == record.KindLink {
		return true
	}
	if t.Scheduled == "" || nominal == "" {
		return false
	}
	return record.Normalize(t.Scheduled) > record.Normalize(nominal)
}
