package formula

import (
	"strings"

	"github.com/samber/lo"
)

// A Domain is a finite, ordered set of constant values a quantified variable can range over.
// Values are either Num or Ident.
// Name is empty for domains written literally in a quantifier.
type Domain struct {
	Name   string
	Values []Expr
}

// Interval returns the domain made of all integers from lo to hi, in ascending order.
// The domain is empty if lo > hi.
func Interval(name string, lo, hi int) Domain {
	d := Domain{Name: name}
	if lo > hi {
		return d
	}
	// i <= hi would always hold when hi is the max int.
	for i := lo; ; i++ {
		d.Values = append(d.Values, Num(i))
		if i == hi {
			return d
		}
	}
}

// Enum returns the domain made of the given values, in the given order.
// Repeated values are only kept once.
func Enum(name string, values ...Expr) Domain {
	return Domain{Name: name, Values: lo.Uniq(values)}
}

// Len returns the number of values in d.
func (d Domain) Len() int { return len(d.Values) }

func (d Domain) String() string {
	strs := make([]string, len(d.Values))
	for i, v := range d.Values {
		strs[i] = v.String()
	}
	return "{" + strings.Join(strs, ", ") + "}"
}

// ref is how the domain is referred to from a quantifier.
func (d Domain) ref() string {
	if d.Name != "" {
		return d.Name
	}
	return d.String()
}
