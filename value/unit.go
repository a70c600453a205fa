package value

// Unit is a physical measurement unit attachable to a numeric variable.
type Unit struct {
	Name   string
	Symbol string
}

// NoUnit is the zero Unit, meaning "no unit attached".
var NoUnit = Unit{}

// Equal reports whether two units name the same measurement.
func (u Unit) Equal(other Unit) bool {
	return u.Name == other.Name && u.Symbol == other.Symbol
}
