package ast

import "strconv"

// Operator is the operation performed by a unary, binary or aggregate node.
type Operator uint16

const (
	OpNull Operator = iota
	OpNegative
	OpPositive
	OpLogicalNot
	OpBitwiseNot
	OpPostIncrement
	OpPostDecrement
	OpPreIncrement
	OpPreDecrement
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIMod
	OpEqual
	OpNotEqual
	OpLessThan
	OpGreaterThan
	OpLessThanEqual
	OpGreaterThanEqual
	OpComma
	OpVectorTimesScalar
	OpVectorTimesMatrix
	OpMatrixTimesVector
	OpMatrixTimesScalar
	OpMatrixTimesMatrix
	OpLogicalOr
	OpLogicalXor
	OpLogicalAnd
	OpBitShiftLeft
	OpBitShiftRight
	OpBitwiseAnd
	OpBitwiseXor
	OpBitwiseOr
	OpIndexDirect
	OpIndexIndirect
	OpIndexDirectStruct
	OpIndexDirectInterfaceBlock
	OpAssign
	OpInitialize
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpVectorTimesMatrixAssign
	OpVectorTimesScalarAssign
	OpMatrixTimesScalarAssign
	OpMatrixTimesMatrixAssign
	OpDivAssign
	OpIModAssign
	OpBitShiftLeftAssign
	OpBitShiftRightAssign
	OpBitwiseAndAssign
	OpBitwiseXorAssign
	OpBitwiseOrAssign
	OpCallFunctionInAST
	OpCallInternalRawFunction
	OpConstruct

	// Built-in function operators. Nodes carrying one of these must also
	// reference the matching built-in function signature.
	opBuiltInBegin
	OpRadians
	OpDegrees
	OpSin
	OpCos
	OpTan
	OpExp
	OpLog
	OpSqrt
	OpInverseSqrt
	OpAbs
	OpSign
	OpFloor
	OpFract
	OpLength
	OpDFdx
	OpDFdy
	OpFwidth
	OpNormalize
	OpDot
	OpDistance
	OpCross
	OpMin
	OpMax
	OpPow
	OpClamp
	OpMix
	OpStep
	OpSmoothStep
	OpTranspose
	OpInverse
	OpDeterminant
	OpTexture
	OpTextureLod
	OpTextureGrad
	OpTexelFetch
	OpTextureSize
	OpTexture2D
	OpTextureCube
	OpFloatBitsToInt
	OpIntBitsToFloat
	OpFloatBitsToUint
	OpUintBitsToFloat
	OpPackUnorm4x8
	OpUnpackUnorm4x8
	OpPackHalf2x16
	OpUnpackHalf2x16
	OpBitCount
	OpAny
	OpAll
	OpNotComponentWise
	OpBarrier
	OpMemoryBarrier
	OpGroupMemoryBarrier
	OpMemoryBarrierShared
	OpEmitVertex
	OpEndPrimitive
	OpBeginInvocationInterlock
	OpEndInvocationInterlock
	opBuiltInEnd
)

var operatorNames = [...]string{
	OpNull:                      "null",
	OpNegative:                  "-",
	OpPositive:                  "+",
	OpLogicalNot:                "!",
	OpBitwiseNot:                "~",
	OpPostIncrement:             "post++",
	OpPostDecrement:             "post--",
	OpPreIncrement:              "++pre",
	OpPreDecrement:              "--pre",
	OpAdd:                       "+",
	OpSub:                       "-",
	OpMul:                       "*",
	OpDiv:                       "/",
	OpIMod:                      "%",
	OpEqual:                     "==",
	OpNotEqual:                  "!=",
	OpLessThan:                  "<",
	OpGreaterThan:               ">",
	OpLessThanEqual:             "<=",
	OpGreaterThanEqual:          ">=",
	OpComma:                     ",",
	OpVectorTimesScalar:         "vec*scalar",
	OpVectorTimesMatrix:         "vec*mat",
	OpMatrixTimesVector:         "mat*vec",
	OpMatrixTimesScalar:         "mat*scalar",
	OpMatrixTimesMatrix:         "mat*mat",
	OpLogicalOr:                 "||",
	OpLogicalXor:                "^^",
	OpLogicalAnd:                "&&",
	OpBitShiftLeft:              "<<",
	OpBitShiftRight:             ">>",
	OpBitwiseAnd:                "&",
	OpBitwiseXor:                "^",
	OpBitwiseOr:                 "|",
	OpIndexDirect:               "index",
	OpIndexIndirect:             "index_indirect",
	OpIndexDirectStruct:         "field",
	OpIndexDirectInterfaceBlock: "block_field",
	OpAssign:                    "=",
	OpInitialize:                "init",
	OpAddAssign:                 "+=",
	OpSubAssign:                 "-=",
	OpMulAssign:                 "*=",
	OpVectorTimesMatrixAssign:   "vec*=mat",
	OpVectorTimesScalarAssign:   "vec*=scalar",
	OpMatrixTimesScalarAssign:   "mat*=scalar",
	OpMatrixTimesMatrixAssign:   "mat*=mat",
	OpDivAssign:                 "/=",
	OpIModAssign:                "%=",
	OpBitShiftLeftAssign:        "<<=",
	OpBitShiftRightAssign:       ">>=",
	OpBitwiseAndAssign:          "&=",
	OpBitwiseXorAssign:          "^=",
	OpBitwiseOrAssign:           "|=",
	OpCallFunctionInAST:         "call",
	OpCallInternalRawFunction:   "call_raw",
	OpConstruct:                 "construct",
	OpRadians:                   "radians",
	OpDegrees:                   "degrees",
	OpSin:                       "sin",
	OpCos:                       "cos",
	OpTan:                       "tan",
	OpExp:                       "exp",
	OpLog:                       "log",
	OpSqrt:                      "sqrt",
	OpInverseSqrt:               "inversesqrt",
	OpAbs:                       "abs",
	OpSign:                      "sign",
	OpFloor:                     "floor",
	OpFract:                     "fract",
	OpLength:                    "length",
	OpDFdx:                      "dFdx",
	OpDFdy:                      "dFdy",
	OpFwidth:                    "fwidth",
	OpNormalize:                 "normalize",
	OpDot:                       "dot",
	OpDistance:                  "distance",
	OpCross:                     "cross",
	OpMin:                       "min",
	OpMax:                       "max",
	OpPow:                       "pow",
	OpClamp:                     "clamp",
	OpMix:                       "mix",
	OpStep:                      "step",
	OpSmoothStep:                "smoothstep",
	OpTranspose:                 "transpose",
	OpInverse:                   "inverse",
	OpDeterminant:               "determinant",
	OpTexture:                   "texture",
	OpTextureLod:                "textureLod",
	OpTextureGrad:               "textureGrad",
	OpTexelFetch:                "texelFetch",
	OpTextureSize:               "textureSize",
	OpTexture2D:                 "texture2D",
	OpTextureCube:               "textureCube",
	OpFloatBitsToInt:            "floatBitsToInt",
	OpIntBitsToFloat:            "intBitsToFloat",
	OpFloatBitsToUint:           "floatBitsToUint",
	OpUintBitsToFloat:           "uintBitsToFloat",
	OpPackUnorm4x8:              "packUnorm4x8",
	OpUnpackUnorm4x8:            "unpackUnorm4x8",
	OpPackHalf2x16:              "packHalf2x16",
	OpUnpackHalf2x16:            "unpackHalf2x16",
	OpBitCount:                  "bitCount",
	OpAny:                       "any",
	OpAll:                       "all",
	OpNotComponentWise:          "not",
	OpBarrier:                   "barrier",
	OpMemoryBarrier:             "memoryBarrier",
	OpGroupMemoryBarrier:        "groupMemoryBarrier",
	OpMemoryBarrierShared:       "memoryBarrierShared",
	OpEmitVertex:                "EmitVertex",
	OpEndPrimitive:              "EndPrimitive",
	OpBeginInvocationInterlock:  "beginInvocationInterlockARB",
	OpEndInvocationInterlock:    "endInvocationInterlockARB",
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) && operatorNames[op] != "" {
		return operatorNames[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// IsBuiltIn reports whether op is a built-in function operator.
func (op Operator) IsBuiltIn() bool {
	return op > opBuiltInBegin && op < opBuiltInEnd
}

// IsAssignment reports whether op writes its left operand.
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpBitwiseOrAssign
}

// IsIndex reports whether op is one of the indexing operators.
func (op Operator) IsIndex() bool {
	return op >= OpIndexDirect && op <= OpIndexDirectInterfaceBlock
}

// IsCall reports whether op calls a function defined in the tree or
// provided by the target.
func (op Operator) IsCall() bool {
	return op == OpCallFunctionInAST || op == OpCallInternalRawFunction
}

// ParseOperator returns the operator whose name is s. Symbols shared by a
// unary and a binary form resolve to the binary form; see ParseUnaryOperator.
func ParseOperator(s string) (Operator, bool) {
	op, ok := operatorsByName[s]
	return op, ok
}

// ParseUnaryOperator is ParseOperator with "-" and "+" resolved to negation
// and unary plus.
func ParseUnaryOperator(s string) (Operator, bool) {
	switch s {
	case "-":
		return OpNegative, true
	case "+":
		return OpPositive, true
	}
	return ParseOperator(s)
}

var operatorsByName = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for i, name := range operatorNames {
		if name != "" {
			m[name] = Operator(i)
		}
	}
	return m
}()

// BranchOp is the kind of a branch statement.
type BranchOp uint8

const (
	BranchBreak BranchOp = iota
	BranchContinue
	BranchReturn
	BranchDiscard
)

func (b BranchOp) String() string {
	switch b {
	case BranchBreak:
		return "break"
	case BranchContinue:
		return "continue"
	case BranchReturn:
		return "return"
	case BranchDiscard:
		return "discard"
	default:
		return "branch(" + strconv.Itoa(int(b)) + ")"
	}
}
