package value

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	// Invalid is the zero Value; it holds nothing.
	Invalid Kind = iota
	// Bool holds a boolean.
	Bool
	// Number holds a float64.
	Number
	// String holds a string.
	String
	// Array holds an ordered list of Values.
	Array
	// Dictionary holds a string-keyed map of Values.
	Dictionary
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Dictionary:
		return "dictionary"
	default:
		return "invalid"
	}
}

// Value is one node of a parsed description tree: a boolean, a number,
// a string, an array of Values, or a string-keyed dictionary of Values.
//
// Value is read-only by convention: consumers inspect it with the typed
// accessors and never mutate it. The accessors are strict: they report
// ok=false on any kind mismatch instead of coercing, so callers can turn
// a mismatch into a decode error at the point of use.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	d    Dict
}

// Dict is a string-keyed dictionary of Values.
type Dict map[string]Value

// Get returns the value stored under key, or the zero (Invalid) Value
// if the key is absent.
func (d Dict) Get(key string) Value {
	return d[key]
}

// BoolOf wraps a bool.
func BoolOf(b bool) Value { return Value{kind: Bool, b: b} }

// NumberOf wraps a float64.
func NumberOf(n float64) Value { return Value{kind: Number, n: n} }

// StringOf wraps a string.
func StringOf(s string) Value { return Value{kind: String, s: s} }

// ArrayOf wraps a slice of Values.
func ArrayOf(a []Value) Value { return Value{kind: Array, a: a} }

// DictOf wraps a Dict.
func DictOf(d Dict) Value { return Value{kind: Dictionary, d: d} }

// Kind returns the dynamic kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value holds anything.
func (v Value) IsValid() bool { return v.kind != Invalid }

// Bool returns the held boolean. ok is false if the kind is not Bool.
func (v Value) Bool() (b bool, ok bool) {
	return v.b, v.kind == Bool
}

// Float returns the held number. ok is false if the kind is not Number.
func (v Value) Float() (f float64, ok bool) {
	return v.n, v.kind == Number
}

// Int returns the held number truncated to int.
// ok is false if the kind is not Number.
func (v Value) Int() (i int, ok bool) {
	return int(v.n), v.kind == Number
}

// Str returns the held string. ok is false if the kind is not String.
func (v Value) Str() (s string, ok bool) {
	return v.s, v.kind == String
}

// Array returns the held array. ok is false if the kind is not Array.
func (v Value) Array() (a []Value, ok bool) {
	return v.a, v.kind == Array
}

// Dict returns the held dictionary. ok is false if the kind is not
// Dictionary.
func (v Value) Dict() (d Dict, ok bool) {
	return v.d, v.kind == Dictionary
}

// Get returns the value stored under key when v is a dictionary, or the
// zero Value otherwise. Chaining Gets over absent keys is safe.
func (v Value) Get(key string) Value {
	if v.kind != Dictionary {
		return Value{}
	}
	return v.d[key]
}
