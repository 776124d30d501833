package selection

import "slices"

// CandidateKind names the group a merge candidate set holds.
type CandidateKind int

const (
	KindNone CandidateKind = iota
	KindEntities
	KindLayers
	KindColorGroups
)

func (k CandidateKind) String() string {
	switch k {
	case KindEntities:
		return "entities"
	case KindLayers:
		return "layers"
	case KindColorGroups:
		return "color-groups"
	}
	return "none"
}

// MergeCandidate is the set of ids flagged for merging. It holds members of
// exactly one kind, so entity, layer and color-group candidates can never be
// pending at the same time. Members keep their insertion order.
type MergeCandidate struct {
	kind    CandidateKind
	members []string
}

// Kind returns which group the members belong to.
func (c MergeCandidate) Kind() CandidateKind {
	if len(c.members) == 0 {
		return KindNone
	}
	return c.kind
}

// Members returns the ids in insertion order.
func (c MergeCandidate) Members() []string {
	return slices.Clone(c.members)
}

// Len returns the number of members.
func (c MergeCandidate) Len() int { return len(c.members) }

// Has reports whether id is a member of kind.
func (c MergeCandidate) Has(kind CandidateKind, id string) bool {
	return c.Kind() == kind && slices.Contains(c.members, id)
}

// Of returns the members when the candidate holds kind, nil otherwise.
func (c MergeCandidate) Of(kind CandidateKind) []string {
	if c.Kind() != kind {
		return nil
	}
	return c.Members()
}

// Toggled returns the candidate after flipping id under kind. Toggling a
// different kind than the current one starts a fresh set.
func (c MergeCandidate) Toggled(kind CandidateKind, id string) MergeCandidate {
	if c.Kind() != kind {
		return MergeCandidate{kind: kind, members: []string{id}}
	}
	if i := slices.Index(c.members, id); i >= 0 {
		return MergeCandidate{kind: kind, members: slices.Delete(slices.Clone(c.members), i, i+1)}
	}
	return MergeCandidate{kind: kind, members: append(slices.Clone(c.members), id)}
}
