// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

// Operator identifies one of the binary Boolean operations accepted by Apply
// and by the fused apply-quantify operations.
type Operator int32

const (
	OPand       Operator = iota // Conjunction
	OPor                        // Disjunction
	OPxor                       // Exclusive or
	OPnand                      // Negation of and
	OPnor                       // Negation of or
	OPimp                       // Implication
	OPimpstrict                 // Strict implication, !left & right
	OPequiv                     // Equivalence
	// The following tags are used only as cache discriminants and are not
	// valid arguments to Apply.
	opNot
	opIte
	opExist
	opForall
	opUnique
	opRestrict
	opSubst
	opAppEx
	opAppAll
	opAppUn
)

var opnames = [...]string{
	OPand:       "and",
	OPor:        "or",
	OPxor:       "xor",
	OPnand:      "nand",
	OPnor:       "nor",
	OPimp:       "imp",
	OPimpstrict: "impstrict",
	OPequiv:     "equiv",
	opNot:       "not",
	opIte:       "ite",
	opExist:     "exist",
	opForall:    "forall",
	opUnique:    "unique",
	opRestrict:  "restrict",
	opSubst:     "subst",
	opAppEx:     "appex",
	opAppAll:    "appall",
	opAppUn:     "appun",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(opnames) {
		return "invalid"
	}
	return opnames[op]
}

// valid reports whether op can be passed to Apply and the fused
// apply-quantify operations.
func (op Operator) valid() bool {
	return op >= OPand && op <= OPequiv
}

// opres gives the value of each operator on a pair of constants.
var opres = [8][2][2]int32{
	//                       00    01               10    11
	OPand:       {0: [2]int32{0: 0, 1: 0}, 1: [2]int32{0: 0, 1: 1}}, // 0001
	OPor:        {0: [2]int32{0: 0, 1: 1}, 1: [2]int32{0: 1, 1: 1}}, // 0111
	OPxor:       {0: [2]int32{0: 0, 1: 1}, 1: [2]int32{0: 1, 1: 0}}, // 0110
	OPnand:      {0: [2]int32{0: 1, 1: 1}, 1: [2]int32{0: 1, 1: 0}}, // 1110
	OPnor:       {0: [2]int32{0: 1, 1: 0}, 1: [2]int32{0: 0, 1: 0}}, // 1000
	OPimp:       {0: [2]int32{0: 1, 1: 1}, 1: [2]int32{0: 0, 1: 1}}, // 1101
	OPimpstrict: {0: [2]int32{0: 0, 1: 1}, 1: [2]int32{0: 0, 1: 0}}, // 0100
	OPequiv:     {0: [2]int32{0: 1, 1: 0}, 1: [2]int32{0: 0, 1: 1}}, // 1001
}

// commutative reports whether the operands of op can be swapped. We use it to
// normalize cache keys.
func (op Operator) commutative() bool {
	switch op {
	case OPand, OPor, OPxor, OPnand, OPnor, OPequiv:
		return true
	}
	return false
}
