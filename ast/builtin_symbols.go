package ast

import (
	"strings"

	"github.com/gogpu/translator/builtins"
)

type signature struct {
	name   string
	op     Operator
	ret    string
	params []string
}

// builtinSignatures maps each built-in function id to its operator and the
// type codes of its return value and parameters.
var builtinSignatures = map[builtins.ID]signature{
	builtins.FnRadiansF:                    {"radians", OpRadians, "f", []string{"f"}},
	builtins.FnRadiansF2:                   {"radians", OpRadians, "f2", []string{"f2"}},
	builtins.FnRadiansF3:                   {"radians", OpRadians, "f3", []string{"f3"}},
	builtins.FnRadiansF4:                   {"radians", OpRadians, "f4", []string{"f4"}},
	builtins.FnDegreesF:                    {"degrees", OpDegrees, "f", []string{"f"}},
	builtins.FnDegreesF2:                   {"degrees", OpDegrees, "f2", []string{"f2"}},
	builtins.FnDegreesF3:                   {"degrees", OpDegrees, "f3", []string{"f3"}},
	builtins.FnDegreesF4:                   {"degrees", OpDegrees, "f4", []string{"f4"}},
	builtins.FnSinF:                        {"sin", OpSin, "f", []string{"f"}},
	builtins.FnSinF2:                       {"sin", OpSin, "f2", []string{"f2"}},
	builtins.FnSinF3:                       {"sin", OpSin, "f3", []string{"f3"}},
	builtins.FnSinF4:                       {"sin", OpSin, "f4", []string{"f4"}},
	builtins.FnCosF:                        {"cos", OpCos, "f", []string{"f"}},
	builtins.FnCosF2:                       {"cos", OpCos, "f2", []string{"f2"}},
	builtins.FnCosF3:                       {"cos", OpCos, "f3", []string{"f3"}},
	builtins.FnCosF4:                       {"cos", OpCos, "f4", []string{"f4"}},
	builtins.FnTanF:                        {"tan", OpTan, "f", []string{"f"}},
	builtins.FnTanF2:                       {"tan", OpTan, "f2", []string{"f2"}},
	builtins.FnTanF3:                       {"tan", OpTan, "f3", []string{"f3"}},
	builtins.FnTanF4:                       {"tan", OpTan, "f4", []string{"f4"}},
	builtins.FnExpF:                        {"exp", OpExp, "f", []string{"f"}},
	builtins.FnExpF2:                       {"exp", OpExp, "f2", []string{"f2"}},
	builtins.FnExpF3:                       {"exp", OpExp, "f3", []string{"f3"}},
	builtins.FnExpF4:                       {"exp", OpExp, "f4", []string{"f4"}},
	builtins.FnLogF:                        {"log", OpLog, "f", []string{"f"}},
	builtins.FnLogF2:                       {"log", OpLog, "f2", []string{"f2"}},
	builtins.FnLogF3:                       {"log", OpLog, "f3", []string{"f3"}},
	builtins.FnLogF4:                       {"log", OpLog, "f4", []string{"f4"}},
	builtins.FnSqrtF:                       {"sqrt", OpSqrt, "f", []string{"f"}},
	builtins.FnSqrtF2:                      {"sqrt", OpSqrt, "f2", []string{"f2"}},
	builtins.FnSqrtF3:                      {"sqrt", OpSqrt, "f3", []string{"f3"}},
	builtins.FnSqrtF4:                      {"sqrt", OpSqrt, "f4", []string{"f4"}},
	builtins.FnInversesqrtF:                {"inversesqrt", OpInverseSqrt, "f", []string{"f"}},
	builtins.FnInversesqrtF2:               {"inversesqrt", OpInverseSqrt, "f2", []string{"f2"}},
	builtins.FnInversesqrtF3:               {"inversesqrt", OpInverseSqrt, "f3", []string{"f3"}},
	builtins.FnInversesqrtF4:               {"inversesqrt", OpInverseSqrt, "f4", []string{"f4"}},
	builtins.FnAbsF:                        {"abs", OpAbs, "f", []string{"f"}},
	builtins.FnAbsF2:                       {"abs", OpAbs, "f2", []string{"f2"}},
	builtins.FnAbsF3:                       {"abs", OpAbs, "f3", []string{"f3"}},
	builtins.FnAbsF4:                       {"abs", OpAbs, "f4", []string{"f4"}},
	builtins.FnSignF:                       {"sign", OpSign, "f", []string{"f"}},
	builtins.FnSignF2:                      {"sign", OpSign, "f2", []string{"f2"}},
	builtins.FnSignF3:                      {"sign", OpSign, "f3", []string{"f3"}},
	builtins.FnSignF4:                      {"sign", OpSign, "f4", []string{"f4"}},
	builtins.FnFloorF:                      {"floor", OpFloor, "f", []string{"f"}},
	builtins.FnFloorF2:                     {"floor", OpFloor, "f2", []string{"f2"}},
	builtins.FnFloorF3:                     {"floor", OpFloor, "f3", []string{"f3"}},
	builtins.FnFloorF4:                     {"floor", OpFloor, "f4", []string{"f4"}},
	builtins.FnFractF:                      {"fract", OpFract, "f", []string{"f"}},
	builtins.FnFractF2:                     {"fract", OpFract, "f2", []string{"f2"}},
	builtins.FnFractF3:                     {"fract", OpFract, "f3", []string{"f3"}},
	builtins.FnFractF4:                     {"fract", OpFract, "f4", []string{"f4"}},
	builtins.FnLengthF:                     {"length", OpLength, "f", []string{"f"}},
	builtins.FnLengthF2:                    {"length", OpLength, "f", []string{"f2"}},
	builtins.FnLengthF3:                    {"length", OpLength, "f", []string{"f3"}},
	builtins.FnLengthF4:                    {"length", OpLength, "f", []string{"f4"}},
	builtins.FnDFdxF:                       {"dFdx", OpDFdx, "f", []string{"f"}},
	builtins.FnDFdxF2:                      {"dFdx", OpDFdx, "f2", []string{"f2"}},
	builtins.FnDFdxF3:                      {"dFdx", OpDFdx, "f3", []string{"f3"}},
	builtins.FnDFdxF4:                      {"dFdx", OpDFdx, "f4", []string{"f4"}},
	builtins.FnDFdyF:                       {"dFdy", OpDFdy, "f", []string{"f"}},
	builtins.FnDFdyF2:                      {"dFdy", OpDFdy, "f2", []string{"f2"}},
	builtins.FnDFdyF3:                      {"dFdy", OpDFdy, "f3", []string{"f3"}},
	builtins.FnDFdyF4:                      {"dFdy", OpDFdy, "f4", []string{"f4"}},
	builtins.FnFwidthF:                     {"fwidth", OpFwidth, "f", []string{"f"}},
	builtins.FnFwidthF2:                    {"fwidth", OpFwidth, "f2", []string{"f2"}},
	builtins.FnFwidthF3:                    {"fwidth", OpFwidth, "f3", []string{"f3"}},
	builtins.FnFwidthF4:                    {"fwidth", OpFwidth, "f4", []string{"f4"}},
	builtins.FnNormalizeF2:                 {"normalize", OpNormalize, "f2", []string{"f2"}},
	builtins.FnDotF2F2:                     {"dot", OpDot, "f", []string{"f2", "f2"}},
	builtins.FnDistanceF2F2:                {"distance", OpDistance, "f", []string{"f2", "f2"}},
	builtins.FnNormalizeF3:                 {"normalize", OpNormalize, "f3", []string{"f3"}},
	builtins.FnDotF3F3:                     {"dot", OpDot, "f", []string{"f3", "f3"}},
	builtins.FnDistanceF3F3:                {"distance", OpDistance, "f", []string{"f3", "f3"}},
	builtins.FnNormalizeF4:                 {"normalize", OpNormalize, "f4", []string{"f4"}},
	builtins.FnDotF4F4:                     {"dot", OpDot, "f", []string{"f4", "f4"}},
	builtins.FnDistanceF4F4:                {"distance", OpDistance, "f", []string{"f4", "f4"}},
	builtins.FnDotFF:                       {"dot", OpDot, "f", []string{"f", "f"}},
	builtins.FnCrossF3F3:                   {"cross", OpCross, "f3", []string{"f3", "f3"}},
	builtins.FnMinFF:                       {"min", OpMin, "f", []string{"f", "f"}},
	builtins.FnMaxFF:                       {"max", OpMax, "f", []string{"f", "f"}},
	builtins.FnPowFF:                       {"pow", OpPow, "f", []string{"f", "f"}},
	builtins.FnClampFFF:                    {"clamp", OpClamp, "f", []string{"f", "f", "f"}},
	builtins.FnMixFFF:                      {"mix", OpMix, "f", []string{"f", "f", "f"}},
	builtins.FnMinF2F2:                     {"min", OpMin, "f2", []string{"f2", "f2"}},
	builtins.FnMaxF2F2:                     {"max", OpMax, "f2", []string{"f2", "f2"}},
	builtins.FnPowF2F2:                     {"pow", OpPow, "f2", []string{"f2", "f2"}},
	builtins.FnClampF2F2F2:                 {"clamp", OpClamp, "f2", []string{"f2", "f2", "f2"}},
	builtins.FnMixF2F2F:                    {"mix", OpMix, "f2", []string{"f2", "f2", "f"}},
	builtins.FnMinF3F3:                     {"min", OpMin, "f3", []string{"f3", "f3"}},
	builtins.FnMaxF3F3:                     {"max", OpMax, "f3", []string{"f3", "f3"}},
	builtins.FnPowF3F3:                     {"pow", OpPow, "f3", []string{"f3", "f3"}},
	builtins.FnClampF3F3F3:                 {"clamp", OpClamp, "f3", []string{"f3", "f3", "f3"}},
	builtins.FnMixF3F3F:                    {"mix", OpMix, "f3", []string{"f3", "f3", "f"}},
	builtins.FnMinF4F4:                     {"min", OpMin, "f4", []string{"f4", "f4"}},
	builtins.FnMaxF4F4:                     {"max", OpMax, "f4", []string{"f4", "f4"}},
	builtins.FnPowF4F4:                     {"pow", OpPow, "f4", []string{"f4", "f4"}},
	builtins.FnClampF4F4F4:                 {"clamp", OpClamp, "f4", []string{"f4", "f4", "f4"}},
	builtins.FnMixF4F4F:                    {"mix", OpMix, "f4", []string{"f4", "f4", "f"}},
	builtins.FnStepFF:                      {"step", OpStep, "f", []string{"f", "f"}},
	builtins.FnSmoothstepFFF:               {"smoothstep", OpSmoothStep, "f", []string{"f", "f", "f"}},
	builtins.FnTransposeM22:                {"transpose", OpTranspose, "m22", []string{"m22"}},
	builtins.FnTransposeM33:                {"transpose", OpTranspose, "m33", []string{"m33"}},
	builtins.FnTransposeM44:                {"transpose", OpTranspose, "m44", []string{"m44"}},
	builtins.FnTransposeM34:                {"transpose", OpTranspose, "m43", []string{"m34"}},
	builtins.FnTransposeM43:                {"transpose", OpTranspose, "m34", []string{"m43"}},
	builtins.FnTransposeM23:                {"transpose", OpTranspose, "m32", []string{"m23"}},
	builtins.FnTransposeM32:                {"transpose", OpTranspose, "m23", []string{"m32"}},
	builtins.FnTransposeM24:                {"transpose", OpTranspose, "m42", []string{"m24"}},
	builtins.FnTransposeM42:                {"transpose", OpTranspose, "m24", []string{"m42"}},
	builtins.FnInverseM22:                  {"inverse", OpInverse, "m22", []string{"m22"}},
	builtins.FnDeterminantM22:              {"determinant", OpDeterminant, "f", []string{"m22"}},
	builtins.FnInverseM33:                  {"inverse", OpInverse, "m33", []string{"m33"}},
	builtins.FnDeterminantM33:              {"determinant", OpDeterminant, "f", []string{"m33"}},
	builtins.FnInverseM44:                  {"inverse", OpInverse, "m44", []string{"m44"}},
	builtins.FnDeterminantM44:              {"determinant", OpDeterminant, "f", []string{"m44"}},
	builtins.FnTextureS2DF2:                {"texture", OpTexture, "f4", []string{"s2D", "f2"}},
	builtins.FnTextureS2DF2F:               {"texture", OpTexture, "f4", []string{"s2D", "f2", "f"}},
	builtins.FnTextureSCubeF3:              {"texture", OpTexture, "f4", []string{"sCube", "f3"}},
	builtins.FnTextureS2DAF3:               {"texture", OpTexture, "f4", []string{"s2DA", "f3"}},
	builtins.FnTextureS3DF3:                {"texture", OpTexture, "f4", []string{"s3D", "f3"}},
	builtins.FnTextureS2DSF3:               {"texture", OpTexture, "f", []string{"s2DS", "f3"}},
	builtins.FnTextureLodS2DF2F:            {"textureLod", OpTextureLod, "f4", []string{"s2D", "f2", "f"}},
	builtins.FnTextureLodSCubeF3F:          {"textureLod", OpTextureLod, "f4", []string{"sCube", "f3", "f"}},
	builtins.FnTextureGradSCubeF3F3F3:      {"textureGrad", OpTextureGrad, "f4", []string{"sCube", "f3", "f3", "f3"}},
	builtins.FnTexelFetchS2DI2I:            {"texelFetch", OpTexelFetch, "f4", []string{"s2D", "i2", "i"}},
	builtins.FnTextureSizeS2DI:             {"textureSize", OpTextureSize, "i2", []string{"s2D", "i"}},
	builtins.FnTextureSizeSCubeI:           {"textureSize", OpTextureSize, "i2", []string{"sCube", "i"}},
	builtins.FnTexture2DS2DF2:              {"texture2D", OpTexture2D, "f4", []string{"s2D", "f2"}},
	builtins.FnTextureCubeSCubeF3:          {"textureCube", OpTextureCube, "f4", []string{"sCube", "f3"}},
	builtins.FnFloatBitsToIntF:             {"floatBitsToInt", OpFloatBitsToInt, "i", []string{"f"}},
	builtins.FnIntBitsToFloatI:             {"intBitsToFloat", OpIntBitsToFloat, "f", []string{"i"}},
	builtins.FnFloatBitsToUintF:            {"floatBitsToUint", OpFloatBitsToUint, "u", []string{"f"}},
	builtins.FnUintBitsToFloatU:            {"uintBitsToFloat", OpUintBitsToFloat, "f", []string{"u"}},
	builtins.FnPackUnorm4x8F4:              {"packUnorm4x8", OpPackUnorm4x8, "u", []string{"f4"}},
	builtins.FnUnpackUnorm4x8U:             {"unpackUnorm4x8", OpUnpackUnorm4x8, "f4", []string{"u"}},
	builtins.FnPackHalf2x16F2:              {"packHalf2x16", OpPackHalf2x16, "u", []string{"f2"}},
	builtins.FnUnpackHalf2x16U:             {"unpackHalf2x16", OpUnpackHalf2x16, "f2", []string{"u"}},
	builtins.FnBitCountI:                   {"bitCount", OpBitCount, "i", []string{"i"}},
	builtins.FnBitCountU:                   {"bitCount", OpBitCount, "i", []string{"u"}},
	builtins.FnAnyB2:                       {"any", OpAny, "b", []string{"b2"}},
	builtins.FnAnyB3:                       {"any", OpAny, "b", []string{"b3"}},
	builtins.FnAnyB4:                       {"any", OpAny, "b", []string{"b4"}},
	builtins.FnAllB2:                       {"all", OpAll, "b", []string{"b2"}},
	builtins.FnAllB3:                       {"all", OpAll, "b", []string{"b3"}},
	builtins.FnAllB4:                       {"all", OpAll, "b", []string{"b4"}},
	builtins.FnNotB2:                       {"not", OpNotComponentWise, "b2", []string{"b2"}},
	builtins.FnNotB3:                       {"not", OpNotComponentWise, "b3", []string{"b3"}},
	builtins.FnNotB4:                       {"not", OpNotComponentWise, "b4", []string{"b4"}},
	builtins.FnBarrier:                     {"barrier", OpBarrier, "v", []string{}},
	builtins.FnMemoryBarrier:               {"memoryBarrier", OpMemoryBarrier, "v", []string{}},
	builtins.FnGroupMemoryBarrier:          {"groupMemoryBarrier", OpGroupMemoryBarrier, "v", []string{}},
	builtins.FnMemoryBarrierShared:         {"memoryBarrierShared", OpMemoryBarrierShared, "v", []string{}},
	builtins.FnEmitVertex:                  {"EmitVertex", OpEmitVertex, "v", []string{}},
	builtins.FnEndPrimitive:                {"EndPrimitive", OpEndPrimitive, "v", []string{}},
	builtins.FnBeginInvocationInterlockARB: {"beginInvocationInterlockARB", OpBeginInvocationInterlock, "v", []string{}},
	builtins.FnEndInvocationInterlockARB:   {"endInvocationInterlockARB", OpEndInvocationInterlock, "v", []string{}},
}

func builtinSignature(id builtins.ID) (signature, bool) {
	sig, ok := builtinSignatures[id]
	return sig, ok
}

func (s *SymbolTable) builtinVariableType(id builtins.ID) Type {
	hp := func(t Type) Type {
		t.Precision = PrecisionHigh
		return t
	}
	mp := func(t Type) Type {
		t.Precision = PrecisionMedium
		return t
	}
	switch id {
	case builtins.GlPosition:
		return hp(Vector(BasicFloat, 4, QualOut))
	case builtins.GlPointSize:
		return mp(Scalar(BasicFloat, QualOut))
	case builtins.GlClipDistance, builtins.GlCullDistance:
		return hp(Scalar(BasicFloat, QualOut)).ArrayOf(0)
	case builtins.GlVertexID, builtins.GlInstanceID, builtins.GlVertexIndex, builtins.GlInstanceIndex:
		return hp(Scalar(BasicInt, QualVertexIn))
	case builtins.GlFragCoord:
		return mp(Vector(BasicFloat, 4, QualFragmentIn))
	case builtins.GlFrontFacing, builtins.GlHelperInvocation:
		return Scalar(BasicBool, QualFragmentIn)
	case builtins.GlPointCoord:
		return mp(Vector(BasicFloat, 2, QualFragmentIn))
	case builtins.GlFragColor:
		return mp(Vector(BasicFloat, 4, QualFragmentOut))
	case builtins.GlFragData:
		return mp(Vector(BasicFloat, 4, QualFragmentOut)).ArrayOf(0)
	case builtins.GlLastFragData:
		return mp(Vector(BasicFloat, 4, QualFragmentIn)).ArrayOf(0)
	case builtins.GlFragDepth, builtins.GlFragDepthEXT:
		return hp(Scalar(BasicFloat, QualFragmentOut))
	case builtins.GlSampleMask:
		return hp(Scalar(BasicInt, QualFragmentOut)).ArrayOf(0)
	case builtins.GlSampleMaskIn:
		return hp(Scalar(BasicInt, QualFragmentIn)).ArrayOf(0)
	case builtins.GlSampleID:
		return Scalar(BasicInt, QualFragmentIn)
	case builtins.GlSamplePosition:
		return mp(Vector(BasicFloat, 2, QualFragmentIn))
	case builtins.GlDepthRange:
		return StructType(s.DepthRangeStruct(), QualUniform)
	case builtins.GlIn:
		return BlockType(s.PerVertexBlock(), QualIn).ArrayOf(0)
	case builtins.GlOut:
		return BlockType(s.PerVertexBlock(), QualOut).ArrayOf(0)
	case builtins.GlPrimitiveID, builtins.GlPrimitiveIDIn, builtins.GlInvocationID, builtins.GlPatchVerticesIn:
		return hp(Scalar(BasicInt, QualIn))
	case builtins.GlLayer:
		return hp(Scalar(BasicInt, QualOut))
	case builtins.GlTessLevelOuter:
		return hp(Scalar(BasicFloat, QualOut)).ArrayOf(4)
	case builtins.GlTessLevelInner:
		return hp(Scalar(BasicFloat, QualOut)).ArrayOf(2)
	case builtins.GlTessCoord:
		return hp(Vector(BasicFloat, 3, QualIn))
	case builtins.GlNumWorkGroups, builtins.GlWorkGroupID, builtins.GlLocalInvocationID, builtins.GlGlobalInvocationID:
		return hp(Vector(BasicUInt, 3, QualIn))
	case builtins.GlLocalInvocationIndex, builtins.GlViewIDOVR:
		return hp(Scalar(BasicUInt, QualIn))
	case builtins.GlWorkGroupSize:
		return hp(Vector(BasicUInt, 3, QualConst))
	default:
		// gl_Max* implementation constants.
		return mp(Scalar(BasicInt, QualConst))
	}
}

// TypeCode returns the short code of t used in mangled names: a basic type
// letter followed by the vector size, "m" plus columns and rows for matrices,
// or the sampler name for opaque types. Array dimensions are appended in
// brackets.
func TypeCode(t Type) string {
	var sb strings.Builder
	writeTypeCode(&sb, t)
	return sb.String()
}

func writeTypeCode(sb *strings.Builder, t Type) {
	switch t.Basic {
	case BasicSampler2D:
		sb.WriteString("s2D")
	case BasicSampler3D:
		sb.WriteString("s3D")
	case BasicSamplerCube:
		sb.WriteString("sCube")
	case BasicSampler2DArray:
		sb.WriteString("s2DA")
	case BasicSampler2DShadow:
		sb.WriteString("s2DS")
	case BasicVoid:
		sb.WriteByte('v')
	case BasicStruct, BasicInterfaceBlock:
		sb.WriteString("{}")
	default:
		if t.Secondary > 1 {
			sb.WriteByte('m')
			sb.WriteByte('0' + t.Primary)
			sb.WriteByte('0' + t.Secondary)
			break
		}
		switch t.Basic {
		case BasicFloat:
			sb.WriteByte('f')
		case BasicInt:
			sb.WriteByte('i')
		case BasicUInt:
			sb.WriteByte('u')
		case BasicBool:
			sb.WriteByte('b')
		}
		if t.Primary > 1 {
			sb.WriteByte('0' + t.Primary)
		}
	}
	for range t.ArraySizes {
		sb.WriteString("[]")
	}
}

// TypeFromCode parses a code produced by TypeCode for a non-array type.
func TypeFromCode(code string) (Type, bool) {
	switch code {
	case "v":
		return Void(), true
	case "s2D":
		return Scalar(BasicSampler2D, QualTemporary), true
	case "s3D":
		return Scalar(BasicSampler3D, QualTemporary), true
	case "sCube":
		return Scalar(BasicSamplerCube, QualTemporary), true
	case "s2DA":
		return Scalar(BasicSampler2DArray, QualTemporary), true
	case "s2DS":
		return Scalar(BasicSampler2DShadow, QualTemporary), true
	}
	if len(code) == 3 && code[0] == 'm' {
		c, r := code[1]-'0', code[2]-'0'
		if c < 2 || c > 4 || r < 2 || r > 4 {
			return Type{}, false
		}
		return Matrix(c, r, QualTemporary), true
	}
	if len(code) == 0 || len(code) > 2 {
		return Type{}, false
	}
	var b BasicType
	switch code[0] {
	case 'f':
		b = BasicFloat
	case 'i':
		b = BasicInt
	case 'u':
		b = BasicUInt
	case 'b':
		b = BasicBool
	default:
		return Type{}, false
	}
	if len(code) == 1 {
		return Scalar(b, QualTemporary), true
	}
	n := code[1] - '0'
	if n < 2 || n > 4 {
		return Type{}, false
	}
	return Vector(b, n, QualTemporary), true
}

// MangledName returns the overload-resolving name of a function with the
// given parameter types: the name, "(", then one type code per parameter.
func MangledName(name string, params []Type) string {
	var sb strings.Builder
	sb.Grow(len(name) + 1 + 3*len(params))
	sb.WriteString(name)
	sb.WriteByte('(')
	for _, p := range params {
		writeTypeCode(&sb, p)
	}
	return sb.String()
}

// MangledNameOf returns the mangled name of a function symbol.
func (s *SymbolTable) MangledNameOf(f FunctionID) string {
	fn := &s.functions[f]
	params := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = s.variables[p].Type
	}
	return MangledName(fn.Name, params)
}
