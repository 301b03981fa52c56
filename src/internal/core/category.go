package core

// Category names the subsystem or process an event belongs to. A closed set
// of well-known tags is predeclared; any other string is a valid free-form
// category, so enumerated and ad-hoc callers interoperate.
type Category string

const (
	CategoryAuth   Category = "auth"
	CategoryDB     Category = "db"
	CategoryNet    Category = "net"
	CategoryTask   Category = "task"
	CategorySystem Category = "system"
)

// Known reports whether the category is one of the predeclared tags.
func (c Category) Known() bool {
	switch c {
	case CategoryAuth, CategoryDB, CategoryNet, CategoryTask, CategorySystem:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}
