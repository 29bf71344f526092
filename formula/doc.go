// Package formula defines the formulas of the groundsat input language.
//
// A program is made of boolean formulas over atoms, i.e predicates applied to terms.
// Formulas can be quantified over finite domains, either universally ("forall"),
// existentially ("forsome"), or with a cardinality bound ("atleast", "atmost", "exactly").
// Terms and numeric relations are written with integer arithmetic.
//
// Formulas go through three states:
//
//   - as parsed, they can contain Quant nodes and Atom nodes whose terms refer to quantified variables,
//   - once grounded, quantifiers were replaced by And, Or and Card nodes and all atom terms were resolved,
//   - once renamed, each atom was replaced by a Var, a boolean variable with a flat name.
//
// For instance, with the domain T = {1, 2}, the formula
//
//	forall(x:T) p(x) -> q(x+1)
//
// is grounded as
//
//	and(impl(p(1), q(2)), impl(p(2), q(3)))
//
// and renamed as
//
//	and(impl(p_1, q_2), impl(p_2, q_3))
//
// The set of formula types is closed: functions of this package work by exhaustive type switches,
// and panic when given a type they do not know.
package formula
