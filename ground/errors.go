package ground

import "fmt"

// A NameCollisionError is returned when two different atoms would get the same ground name,
// for instance "p_a" and "p(a)".
type NameCollisionError struct {
	Name          string
	First, Second string // The two colliding atoms.
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("atoms %s and %s both ground to %s", e.First, e.Second, e.Name)
}

// An ArityError is returned, in strict mode, when a predicate is used with a number of terms
// different from its declared arity.
type ArityError struct {
	Pred           string
	Declared, Used int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("predicate %s/%d used with %d terms", e.Pred, e.Declared, e.Used)
}

// A BoundError is returned, in strict mode, when the bound of a cardinality quantifier
// is greater than its number of instances.
type BoundError struct {
	Quant     string
	N         int
	Instances int
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s %d over only %d instances", e.Quant, e.N, e.Instances)
}
