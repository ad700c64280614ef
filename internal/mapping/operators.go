package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOperator marks an operator overload with no script name.
var ErrUnsupportedOperator = errors.New("unsupported operator")

type operatorKey struct {
	symbol string
	// params is the parameter count, or -1 for any.
	params int
}

var operatorNames = map[operatorKey]string{
	{"-", 0}:   "opNeg",
	{"-", 1}:   "opSub",
	{"~", 0}:   "opCom",
	{"++", 0}:  "opPreInc",
	{"++", 1}:  "opPostInc",
	{"--", 0}:  "opPreDec",
	{"--", 1}:  "opPostDec",
	{"==", 1}:  "opEquals",
	{"+", 1}:   "opAdd",
	{"*", 1}:   "opMul",
	{"/", 1}:   "opDiv",
	{"%", 1}:   "opMod",
	{"&", 1}:   "opAnd",
	{"|", 1}:   "opOr",
	{"^", 1}:   "opXor",
	{"<<", 1}:  "opShl",
	{">>", 1}:  "opShr",
	{"[]", 1}:  "opIndex",
	{"()", -1}: "opCall",
	{"=", 1}:   "opAssign",
	{"+=", 1}:  "opAddAssign",
	{"-=", 1}:  "opSubAssign",
	{"*=", 1}:  "opMulAssign",
	{"/=", 1}:  "opDivAssign",
	{"%=", 1}:  "opModAssign",
	{"&=", 1}:  "opAndAssign",
	{"|=", 1}:  "opOrAssign",
	{"^=", 1}:  "opXorAssign",
	{"<<=", 1}: "opShlAssign",
	{">>=", 1}: "opShrAssign",
}

// IsOperator reports whether name spells an operator overload.
func IsOperator(name string) bool {
	symbol, found := strings.CutPrefix(name, "operator")
	if !found || symbol == "" {
		return false
	}
	// operatorX is an ordinary identifier.
	first := symbol[0]
	return !(first == '_' || first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z' || first >= '0' && first <= '9')
}

// OperatorName returns the script method name of a member operator with the
// given parameter count, e.g. ("operator+", 1) is "opAdd".
func OperatorName(name string, params int) (string, error) {
	symbol := strings.ReplaceAll(strings.TrimPrefix(name, "operator"), " ", "")
	if script, found := operatorNames[operatorKey{symbol, params}]; found {
		return script, nil
	}
	if script, found := operatorNames[operatorKey{symbol, -1}]; found {
		return script, nil
	}
	return "", fmt.Errorf("%w %s with %d parameter(s)", ErrUnsupportedOperator, name, params)
}
