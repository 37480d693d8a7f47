// internal/domain/kinship/kinship.go

// Package kinship computes named family relationships between members of
// the registry graph. Members point at each other with serNo references
// (father, spouse, children); everything here is pure in-memory pointer
// comparison over those references.
package kinship

import "github.com/dalemusser/kinhub/internal/domain/models"

// Kind identifies a relationship from the subject's point of view.
type Kind string

const (
	Spouse       Kind = "spouse"
	Father       Kind = "father"
	SonDaughter  Kind = "son_daughter"
	FatherMother Kind = "father_mother"
	Sibling      Kind = "sibling"
	Grandfather  Kind = "grandfather"
	Grandchild   Kind = "grandchild"
	UncleAunt    Kind = "uncle_aunt"
	NephewNiece  Kind = "nephew_niece"
	Cousin       Kind = "cousin"
)

// Label is the bilingual display pair for a relationship kind. The
// Marathi strings are fixed vocabulary carried over from the registry's
// original dataset.
type Label struct {
	English string `json:"english"`
	Marathi string `json:"marathi"`
}

var labels = map[Kind]Label{
	Spouse:       {English: "Spouse", Marathi: "पती/पत्नी"},
	Father:       {English: "Father", Marathi: "वडील"},
	SonDaughter:  {English: "Son/Daughter", Marathi: "मुल/मुलगी"},
	FatherMother: {English: "Father/Mother", Marathi: "वडील/आई"},
	Sibling:      {English: "Sibling", Marathi: "भाऊ/बहीण"},
	Grandfather:  {English: "Grandfather", Marathi: "आजोबा"},
	Grandchild:   {English: "Grandson/Granddaughter", Marathi: "नातू/नात"},
	UncleAunt:    {English: "Uncle/Aunt", Marathi: "काका/मावशी"},
	NephewNiece:  {English: "Nephew/Niece", Marathi: "पुतणा/पुतणी"},
	Cousin:       {English: "Cousin", Marathi: "चुलत भाऊ/बहीण"},
}

// Label returns the bilingual display pair for the kind. Unknown kinds
// return a zero Label.
func (k Kind) Label() Label {
	return labels[k]
}

// Relation is a resolved relationship: the kind plus both display labels.
type Relation struct {
	Kind    Kind   `json:"kind"`
	English string `json:"english"`
	Marathi string `json:"marathi"`
}

func relation(k Kind) Relation {
	l := labels[k]
	return Relation{Kind: k, English: l.English, Marathi: l.Marathi}
}

// MemberRelation pairs a related member with the resolved relation,
// as returned by RelationsOf.
type MemberRelation struct {
	Member   models.Member `json:"member"`
	Relation Relation      `json:"relation"`
}

// Edge is a directly-declared relationship edge (spouse or parent-child
// pointer), as returned by StaticEdges. Inferred relationships such as
// cousin or uncle never appear here.
type Edge struct {
	FromSerNo int    `json:"fromSerNo"`
	ToSerNo   int    `json:"toSerNo"`
	Relation  string `json:"relation"`
	Marathi   string `json:"relationMarathi"`
}

// Index builds a serNo→member lookup for the resolver. Members without a
// serNo are skipped; they cannot participate in the graph.
func Index(all []models.Member) map[int]models.Member {
	idx := make(map[int]models.Member, len(all))
	for _, m := range all {
		if m.SerNo != 0 {
			idx[m.SerNo] = m
		}
	}
	return idx
}
