package property

type vec struct {
	X float64
	Y float64
}

var vecFields = NewTable[vec]()

func init() {
	Scalar(vecFields, "x", func(v *vec) *float64 { return &v.X })
	Scalar(vecFields, "y", func(v *vec) *float64 { return &v.Y })
}

func (v *vec) Field(name string) (Field, bool) { return vecFields.Bind(v, name) }
func (v *vec) Fields() []Info                  { return vecFields.Fields() }

type record struct {
	Name   string
	Pos    vec
	Items  []string
	Points []vec
	Child  *record
}

var recordFields = NewTable[record]()

func init() {
	Scalar(recordFields, "name", func(r *record) *string { return &r.Name }, DisplayName("Name"), Group("Common"))
	Scalar(recordFields, "pos", func(r *record) *vec { return &r.Pos })
	Collection(recordFields, "items", func(r *record) *[]string { return &r.Items })
	Collection(recordFields, "points", func(r *record) *[]vec { return &r.Points })
	Scalar(recordFields, "child", func(r *record) **record { return &r.Child })
}

func (r *record) Field(name string) (Field, bool) { return recordFields.Bind(r, name) }
func (r *record) Fields() []Info                  { return recordFields.Fields() }
func (r *record) IsNil() bool                     { return r == nil }
