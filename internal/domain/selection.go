package domain

import "sort"

// Selection is the user-chosen set of repositories to monitor. It is
// persisted independently of the session and tolerates stale IDs.
type Selection map[RepositoryID]struct{}

func NewSelection(ids ...RepositoryID) Selection {
	selection := make(Selection, len(ids))
	for _, id := range ids {
		selection[id] = struct{}{}
	}
	return selection
}

func (s Selection) Has(id RepositoryID) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips membership and reports whether the ID is selected afterward.
func (s Selection) Toggle(id RepositoryID) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s Selection) IDs() []RepositoryID {
	ids := make([]RepositoryID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s Selection) Clone() Selection {
	clone := make(Selection, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}
	return clone
}
