package relation

// Kind discriminates the relation variants.
type Kind string

const (
	KindManyToOne  Kind = "many-to-one"
	KindOneToMany  Kind = "one-to-many"
	KindManyToMany Kind = "many-to-many"
)

// Relation is the closed set of relation variants an entity can carry.
type Relation interface {
	Kind() Kind
	Property() string
}

// ManyToOne is the owning side of a foreign-key relation: this entity
// holds the FK columns.
type ManyToOne struct {
	TargetEntity    string
	TargetTable     string
	LocalColumns    []string
	ForeignColumns  []string
	PropertyName    string
	OnDelete        string
	OnUpdate        string
	Nullable        bool
	SelfReferencing bool
}

func (ManyToOne) Kind() Kind         { return KindManyToOne }
func (r ManyToOne) Property() string { return r.PropertyName }

// OneToMany is the inverse collection side; MappedBy names the ManyToOne
// property on the target entity.
type OneToMany struct {
	TargetEntity    string
	TargetTable     string
	PropertyName    string
	MappedBy        string
	SelfReferencing bool
}

func (OneToMany) Kind() Kind         { return KindOneToMany }
func (r OneToMany) Property() string { return r.PropertyName }

// ManyToMany is synthesized from a junction table. The owning side carries
// the junction-table declaration and InversedBy; the inverse side carries
// MappedBy.
type ManyToMany struct {
	TargetEntity    string
	TargetTable     string
	PropertyName    string
	JunctionTable   string
	OwningSide      bool
	MappedBy        string
	InversedBy      string
	SelfReferencing bool
}

func (ManyToMany) Kind() Kind         { return KindManyToMany }
func (r ManyToMany) Property() string { return r.PropertyName }
