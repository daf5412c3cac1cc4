package ast

// Var is one variable a construct introduces: its name, declared type and
// the declarator node that introduces it.
type Var struct {
	Name string
	Type Type
	Node NodeID
}

// VarList is the ordered list of variables a construct introduces into the
// scope it contributes to. The zero value is the empty list.
type VarList struct {
	vars []Var
}

func NewVarList(vars ...Var) VarList {
	return VarList{vars: vars}
}

func (l VarList) Len() int {
	return len(l.vars)
}

func (l VarList) IsEmpty() bool {
	return len(l.vars) == 0
}

func (l VarList) At(i int) Var {
	return l.vars[i]
}

// Vars returns a copy of the variables in declaration order.
func (l VarList) Vars() []Var {
	out := make([]Var, len(l.vars))
	copy(out, l.vars)
	return out
}

func (l VarList) Names() []string {
	names := make([]string, len(l.vars))
	for i, v := range l.vars {
		names[i] = v.Name
	}
	return names
}

// Lookup returns the variable called name, if the list introduces it.
func (l VarList) Lookup(name string) (Var, bool) {
	for _, v := range l.vars {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}
