package ast

import (
	"strconv"
	"strings"
)

// BasicType is the scalar kind of a type, or the marker for aggregate kinds.
type BasicType uint8

const (
	BasicVoid BasicType = iota
	BasicFloat
	BasicInt
	BasicUInt
	BasicBool
	BasicSampler2D
	BasicSampler3D
	BasicSamplerCube
	BasicSampler2DArray
	BasicSampler2DShadow
	BasicStruct
	BasicInterfaceBlock
)

var basicTypeNames = [...]string{
	BasicVoid:            "void",
	BasicFloat:           "float",
	BasicInt:             "int",
	BasicUInt:            "uint",
	BasicBool:            "bool",
	BasicSampler2D:       "sampler2D",
	BasicSampler3D:       "sampler3D",
	BasicSamplerCube:     "samplerCube",
	BasicSampler2DArray:  "sampler2DArray",
	BasicSampler2DShadow: "sampler2DShadow",
	BasicStruct:          "struct",
	BasicInterfaceBlock:  "block",
}

func (b BasicType) String() string {
	if int(b) < len(basicTypeNames) {
		return basicTypeNames[b]
	}
	return "basic(" + strconv.Itoa(int(b)) + ")"
}

// IsOpaque reports whether values of this type are opaque resources.
func (b BasicType) IsOpaque() bool {
	return b >= BasicSampler2D && b <= BasicSampler2DShadow
}

// IsScalar reports whether b is one of the arithmetic or boolean scalar kinds.
func (b BasicType) IsScalar() bool {
	return b >= BasicFloat && b <= BasicBool
}

// Precision is a GLSL precision qualifier.
type Precision uint8

const (
	PrecisionUndefined Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	default:
		return ""
	}
}

// Qualifier is the storage qualifier of a variable.
type Qualifier uint8

const (
	QualTemporary Qualifier = iota
	QualGlobal
	QualConst
	QualIn
	QualOut
	QualVertexIn
	QualVertexOut
	QualFragmentIn
	QualFragmentOut
	QualUniform
	QualBuffer
	QualParamIn
	QualParamOut
	QualParamInOut
	QualParamConst
	QualSpecConst
)

var qualifierNames = [...]string{
	QualTemporary:   "temp",
	QualGlobal:      "global",
	QualConst:       "const",
	QualIn:          "in",
	QualOut:         "out",
	QualVertexIn:    "vertex_in",
	QualVertexOut:   "vertex_out",
	QualFragmentIn:  "fragment_in",
	QualFragmentOut: "fragment_out",
	QualUniform:     "uniform",
	QualBuffer:      "buffer",
	QualParamIn:     "param_in",
	QualParamOut:    "param_out",
	QualParamInOut:  "param_inout",
	QualParamConst:  "param_const",
	QualSpecConst:   "spec_const",
}

func (q Qualifier) String() string {
	if int(q) < len(qualifierNames) {
		return qualifierNames[q]
	}
	return "qualifier(" + strconv.Itoa(int(q)) + ")"
}

// IsParam reports whether q is a parameter-passing qualifier.
func (q Qualifier) IsParam() bool {
	return q >= QualParamIn && q <= QualParamConst
}

// IsOutput reports whether q declares a shader-stage output.
func (q Qualifier) IsOutput() bool {
	return q == QualOut || q == QualVertexOut || q == QualFragmentOut
}

// IsInput reports whether q declares a shader-stage input.
func (q Qualifier) IsInput() bool {
	return q == QualIn || q == QualVertexIn || q == QualFragmentIn
}

// Interpolation is the interpolation qualifier of a varying.
type Interpolation uint8

const (
	InterpSmooth Interpolation = iota
	InterpFlat
	InterpNoPerspective
	InterpCentroid
	InterpSample
)

// MatrixPacking selects the memory layout of matrices in blocks.
type MatrixPacking uint8

const (
	PackingUnspecified MatrixPacking = iota
	PackingColumnMajor
	PackingRowMajor
)

// BlockStorage is the memory layout of an interface block.
type BlockStorage uint8

const (
	StorageUnspecified BlockStorage = iota
	StorageStd140
	StorageStd430
)

// Layout holds layout qualifiers. Unset indices are -1.
type Layout struct {
	Location      int
	Binding       int
	Set           int
	MatrixPacking MatrixPacking
	BlockStorage  BlockStorage
}

// NoLayout returns a layout with every index unset.
func NoLayout() Layout {
	return Layout{Location: -1, Binding: -1, Set: -1}
}

// Type describes the static type of a value, including its qualifiers.
type Type struct {
	Basic         BasicType
	Precision     Precision
	Qualifier     Qualifier
	Interpolation Interpolation
	Invariant     bool
	Precise       bool

	// Primary is the vector size, or the column count of a matrix.
	Primary uint8
	// Secondary is the row count of a matrix, 1 otherwise.
	Secondary uint8

	// ArraySizes lists array dimensions, outermost first. 0 is unsized.
	ArraySizes []uint32

	Struct StructID
	Block  BlockID

	// BlockField is the field index of a nameless interface block
	// that a variable of this type stands for, or -1.
	BlockField int

	// StructSpecifier is set when the declaration carrying this type also
	// defines the struct.
	StructSpecifier bool

	Layout Layout
}

// Scalar returns a scalar type with the given basic type and qualifier.
func Scalar(b BasicType, q Qualifier) Type {
	return Type{Basic: b, Qualifier: q, Primary: 1, Secondary: 1, BlockField: -1, Layout: NoLayout()}
}

// Vector returns a vector type of size n.
func Vector(b BasicType, n uint8, q Qualifier) Type {
	t := Scalar(b, q)
	t.Primary = n
	return t
}

// Matrix returns a float matrix with cols columns and rows rows.
func Matrix(cols, rows uint8, q Qualifier) Type {
	t := Scalar(BasicFloat, q)
	t.Primary = cols
	t.Secondary = rows
	return t
}

// StructType returns a value type of the given structure.
func StructType(s StructID, q Qualifier) Type {
	t := Scalar(BasicStruct, q)
	t.Struct = s
	return t
}

// BlockType returns the type of an interface block instance.
func BlockType(b BlockID, q Qualifier) Type {
	t := Scalar(BasicInterfaceBlock, q)
	t.Block = b
	return t
}

// Void returns the void type.
func Void() Type {
	return Scalar(BasicVoid, QualTemporary)
}

// IsScalar reports whether t is a non-array scalar.
func (t Type) IsScalar() bool {
	return t.Primary == 1 && t.Secondary == 1 && !t.IsArray() && t.Basic.IsScalar()
}

// IsVector reports whether t is a non-array vector.
func (t Type) IsVector() bool {
	return t.Primary > 1 && t.Secondary == 1 && !t.IsArray()
}

// IsMatrix reports whether t is a non-array matrix.
func (t Type) IsMatrix() bool {
	return t.Secondary > 1 && !t.IsArray()
}

// IsArray reports whether t has at least one array dimension.
func (t Type) IsArray() bool {
	return len(t.ArraySizes) > 0
}

// IsUnsizedArray reports whether the outermost array dimension is unsized.
func (t Type) IsUnsizedArray() bool {
	return len(t.ArraySizes) > 0 && t.ArraySizes[0] == 0
}

// OuterArraySize returns the outermost array dimension, or 0.
func (t Type) OuterArraySize() uint32 {
	if len(t.ArraySizes) == 0 {
		return 0
	}
	return t.ArraySizes[0]
}

// IsInterfaceBlock reports whether t is the type of a block instance.
func (t Type) IsInterfaceBlock() bool {
	return t.Basic == BasicInterfaceBlock
}

// IsStruct reports whether t is a struct value type.
func (t Type) IsStruct() bool {
	return t.Basic == BasicStruct
}

// ComponentCount returns the number of scalar components of one element.
func (t Type) ComponentCount() int {
	return int(t.Primary) * int(t.Secondary)
}

// ElementCount returns the product of all array dimensions, or 1.
func (t Type) ElementCount() int {
	n := 1
	for _, s := range t.ArraySizes {
		n *= int(s)
	}
	return n
}

// Clone returns a copy of t that shares no slices with t.
func (t Type) Clone() Type {
	if t.ArraySizes != nil {
		t.ArraySizes = append([]uint32(nil), t.ArraySizes...)
	}
	return t
}

// Element returns the type produced by indexing t once.
// Arrays lose their outermost dimension, matrices yield a column vector,
// vectors yield a scalar.
func (t Type) Element() Type {
	e := t.Clone()
	switch {
	case len(e.ArraySizes) > 0:
		e.ArraySizes = e.ArraySizes[1:]
		if len(e.ArraySizes) == 0 {
			e.ArraySizes = nil
		}
	case e.Secondary > 1:
		e.Primary = e.Secondary
		e.Secondary = 1
	case e.Primary > 1:
		e.Primary = 1
	}
	e.StructSpecifier = false
	return e
}

// ArrayOf returns t wrapped in an outer array of the given size.
func (t Type) ArrayOf(size uint32) Type {
	a := t.Clone()
	a.ArraySizes = append([]uint32{size}, a.ArraySizes...)
	return a
}

// WithQualifier returns a copy of t with a different storage qualifier.
func (t Type) WithQualifier(q Qualifier) Type {
	c := t.Clone()
	c.Qualifier = q
	return c
}

// SameType reports whether a and b denote the same type. Structures and
// interface blocks are compared by handle, so two identically shaped structs
// declared in different scopes are different types.
func SameType(a, b Type) bool {
	if a.Basic != b.Basic || a.Primary != b.Primary || a.Secondary != b.Secondary {
		return false
	}
	if len(a.ArraySizes) != len(b.ArraySizes) {
		return false
	}
	for i := range a.ArraySizes {
		if a.ArraySizes[i] != b.ArraySizes[i] {
			return false
		}
	}
	if a.Struct != b.Struct {
		return false
	}
	if a.IsInterfaceBlock() && a.Block != b.Block {
		return false
	}
	return true
}

// String renders t in a GLSL-like form, for dumps and diagnostics.
func (t Type) String() string {
	var sb strings.Builder
	if t.Invariant {
		sb.WriteString("invariant ")
	}
	if t.Precise {
		sb.WriteString("precise ")
	}
	if t.Qualifier != QualTemporary {
		sb.WriteString(t.Qualifier.String())
		sb.WriteByte(' ')
	}
	if p := t.Precision.String(); p != "" {
		sb.WriteString(p)
		sb.WriteByte(' ')
	}
	switch {
	case t.Basic == BasicStruct:
		sb.WriteString("struct#")
		sb.WriteString(strconv.Itoa(int(t.Struct)))
	case t.Basic == BasicInterfaceBlock:
		sb.WriteString("block#")
		sb.WriteString(strconv.Itoa(int(t.Block)))
	case t.Secondary > 1:
		sb.WriteString("mat")
		sb.WriteString(strconv.Itoa(int(t.Primary)))
		sb.WriteByte('x')
		sb.WriteString(strconv.Itoa(int(t.Secondary)))
	case t.Primary > 1:
		switch t.Basic {
		case BasicInt:
			sb.WriteByte('i')
		case BasicUInt:
			sb.WriteByte('u')
		case BasicBool:
			sb.WriteByte('b')
		}
		sb.WriteString("vec")
		sb.WriteString(strconv.Itoa(int(t.Primary)))
	default:
		sb.WriteString(t.Basic.String())
	}
	for _, s := range t.ArraySizes {
		sb.WriteByte('[')
		if s > 0 {
			sb.WriteString(strconv.FormatUint(uint64(s), 10))
		}
		sb.WriteByte(']')
	}
	return sb.String()
}
