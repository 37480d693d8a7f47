// internal/domain/kinship/resolver.go
package kinship

import (
	"errors"
	"fmt"

	"github.com/dalemusser/kinhub/internal/domain/models"
)

// ErrMemberNotFound is returned by RelationsOf when the subject serNo has
// no member in the set.
var ErrMemberNotFound = errors.New("member not found")

// Resolve computes the relationship between subject and other, given a
// serNo index over the full member set (grandparent and cousin rules need
// lookups beyond one hop).
//
// The checks run in a fixed order and the first match wins; several later
// rules are special cases of earlier ones, so reordering changes results.
// Callers must exclude self-comparison; Resolve assumes the two serNos
// differ. A zero serNo pointer means "absent" and never matches a rule.
func Resolve(subject, other models.Member, index map[int]models.Member) (Relation, bool) {
	// 1. Spouse, in either direction. Spouse links are advisory and may be
	//    recorded on only one side.
	if (subject.SpouseSerNo != 0 && subject.SpouseSerNo == other.SerNo) ||
		(other.SpouseSerNo != 0 && other.SpouseSerNo == subject.SerNo) {
		return relation(Spouse), true
	}

	// 2–3. Direct father pointer, both directions.
	if subject.FatherSerNo != 0 && subject.FatherSerNo == other.SerNo {
		return relation(Father), true
	}
	if other.FatherSerNo != 0 && other.FatherSerNo == subject.SerNo {
		return relation(SonDaughter), true
	}

	// 4–5. Explicit child lists, both directions.
	if containsSerNo(subject.SonDaughterSerNo, other.SerNo) {
		return relation(SonDaughter), true
	}
	if containsSerNo(other.SonDaughterSerNo, subject.SerNo) {
		return relation(FatherMother), true
	}

	// 6. Siblings share a father.
	if subject.FatherSerNo != 0 && subject.FatherSerNo == other.FatherSerNo {
		return relation(Sibling), true
	}

	subjectFather, subjectHasFather := lookup(index, subject.FatherSerNo)
	otherFather, otherHasFather := lookup(index, other.FatherSerNo)

	// 7–8. Grandfather / grandchild via two father hops.
	if subjectHasFather && subjectFather.FatherSerNo != 0 && subjectFather.FatherSerNo == other.SerNo {
		return relation(Grandfather), true
	}
	if otherHasFather && otherFather.FatherSerNo != 0 && otherFather.FatherSerNo == subject.SerNo {
		return relation(Grandchild), true
	}

	// 9–10. Uncle/aunt: other is a sibling of subject's father (shares the
	// father's father); nephew/niece is the reverse.
	if subjectHasFather && other.FatherSerNo != 0 && other.FatherSerNo == subjectFather.FatherSerNo {
		return relation(UncleAunt), true
	}
	if otherHasFather && subject.FatherSerNo != 0 && subject.FatherSerNo == otherFather.FatherSerNo {
		return relation(NephewNiece), true
	}

	// 11. Cousins share a grandfather. Both grandfather links must be
	// present; two members that merely both lack one are unrelated.
	if subjectHasFather && otherHasFather &&
		subjectFather.FatherSerNo != 0 && otherFather.FatherSerNo != 0 &&
		subjectFather.FatherSerNo == otherFather.FatherSerNo {
		return relation(Cousin), true
	}

	return Relation{}, false
}

// RelationsOf resolves the subject against every other member of the set
// and keeps the pairs that match a rule. Resolution is best-effort and
// informational: entries without a serNo are skipped rather than aborting
// the batch.
//
// The serNo index is built once for the whole sweep, so a request for one
// subject is O(N) with constant per-pair work.
func RelationsOf(serNo int, all []models.Member) ([]MemberRelation, error) {
	index := Index(all)
	subject, ok := index[serNo]
	if !ok {
		return nil, fmt.Errorf("relations of serNo %d: %w", serNo, ErrMemberNotFound)
	}

	var out []MemberRelation
	for _, other := range all {
		if other.SerNo == 0 || other.SerNo == subject.SerNo {
			continue
		}
		if rel, ok := Resolve(subject, other, index); ok {
			out = append(out, MemberRelation{Member: other, Relation: rel})
		}
	}
	return out, nil
}

// StaticEdges derives the relationship edge list straight from the
// declared spouse, child-list, and father pointers. It is the cheap
// graph-rendering view: no pairwise resolution and no inferred kinds.
func StaticEdges(all []models.Member) []Edge {
	var edges []Edge
	for _, m := range all {
		if m.SerNo == 0 {
			continue
		}
		if m.SpouseSerNo != 0 {
			edges = append(edges, edge(m.SerNo, m.SpouseSerNo, Spouse))
		}
		for _, child := range m.SonDaughterSerNo {
			if child != 0 {
				edges = append(edges, edge(m.SerNo, child, SonDaughter))
			}
		}
		if m.FatherSerNo != 0 {
			edges = append(edges, edge(m.FatherSerNo, m.SerNo, SonDaughter))
		}
	}
	return edges
}

func edge(from, to int, k Kind) Edge {
	l := labels[k]
	return Edge{FromSerNo: from, ToSerNo: to, Relation: l.English, Marathi: l.Marathi}
}

func containsSerNo(list []int, serNo int) bool {
	if serNo == 0 {
		return false
	}
	for _, n := range list {
		if n == serNo {
			return true
		}
	}
	return false
}

func lookup(index map[int]models.Member, serNo int) (models.Member, bool) {
	if serNo == 0 {
		return models.Member{}, false
	}
	m, ok := index[serNo]
	return m, ok
}
