// GENERATED FILE - DO NOT EDIT.
// Generated by gen_builtins from the built-in catalogue.

package builtins

// Built-in variables, classified by their plain name.
const (
	GlPosition             ID = 1
	GlPointSize            ID = 2
	GlClipDistance         ID = 3
	GlCullDistance         ID = 4
	GlVertexID             ID = 5
	GlInstanceID           ID = 6
	GlVertexIndex          ID = 7
	GlInstanceIndex        ID = 8
	GlFragCoord            ID = 9
	GlFrontFacing          ID = 10
	GlPointCoord           ID = 11
	GlFragColor            ID = 12
	GlFragData             ID = 13
	GlFragDepth            ID = 14
	GlFragDepthEXT         ID = 15
	GlSampleMask           ID = 16
	GlSampleMaskIn         ID = 17
	GlSampleID             ID = 18
	GlSamplePosition       ID = 19
	GlDepthRange           ID = 20
	GlLastFragData         ID = 21
	GlIn                   ID = 22
	GlOut                  ID = 23
	GlPrimitiveID          ID = 24
	GlPrimitiveIDIn        ID = 25
	GlLayer                ID = 26
	GlInvocationID         ID = 27
	GlPatchVerticesIn      ID = 28
	GlTessLevelOuter       ID = 29
	GlTessLevelInner       ID = 30
	GlTessCoord            ID = 31
	GlHelperInvocation     ID = 32
	GlNumWorkGroups        ID = 33
	GlWorkGroupID          ID = 34
	GlLocalInvocationID    ID = 35
	GlGlobalInvocationID   ID = 36
	GlLocalInvocationIndex ID = 37
	GlWorkGroupSize        ID = 38
	GlViewIDOVR            ID = 39
	GlMaxDrawBuffers       ID = 40
	GlMaxVertexAttribs     ID = 41
	GlMaxClipDistances     ID = 42
	GlMaxCullDistances     ID = 43
	GlMaxPatchVertices     ID = 44
	GlMaxTextureImageUnits ID = 45
	GlMaxVaryingVectors    ID = 46
)

// Built-in functions, classified by their mangled signature.
const (
	FnRadiansF                    ID = 47
	FnRadiansF2                   ID = 48
	FnRadiansF3                   ID = 49
	FnRadiansF4                   ID = 50
	FnDegreesF                    ID = 51
	FnDegreesF2                   ID = 52
	FnDegreesF3                   ID = 53
	FnDegreesF4                   ID = 54
	FnSinF                        ID = 55
	FnSinF2                       ID = 56
	FnSinF3                       ID = 57
	FnSinF4                       ID = 58
	FnCosF                        ID = 59
	FnCosF2                       ID = 60
	FnCosF3                       ID = 61
	FnCosF4                       ID = 62
	FnTanF                        ID = 63
	FnTanF2                       ID = 64
	FnTanF3                       ID = 65
	FnTanF4                       ID = 66
	FnExpF                        ID = 67
	FnExpF2                       ID = 68
	FnExpF3                       ID = 69
	FnExpF4                       ID = 70
	FnLogF                        ID = 71
	FnLogF2                       ID = 72
	FnLogF3                       ID = 73
	FnLogF4                       ID = 74
	FnSqrtF                       ID = 75
	FnSqrtF2                      ID = 76
	FnSqrtF3                      ID = 77
	FnSqrtF4                      ID = 78
	FnInversesqrtF                ID = 79
	FnInversesqrtF2               ID = 80
	FnInversesqrtF3               ID = 81
	FnInversesqrtF4               ID = 82
	FnAbsF                        ID = 83
	FnAbsF2                       ID = 84
	FnAbsF3                       ID = 85
	FnAbsF4                       ID = 86
	FnSignF                       ID = 87
	FnSignF2                      ID = 88
	FnSignF3                      ID = 89
	FnSignF4                      ID = 90
	FnFloorF                      ID = 91
	FnFloorF2                     ID = 92
	FnFloorF3                     ID = 93
	FnFloorF4                     ID = 94
	FnFractF                      ID = 95
	FnFractF2                     ID = 96
	FnFractF3                     ID = 97
	FnFractF4                     ID = 98
	FnLengthF                     ID = 99
	FnLengthF2                    ID = 100
	FnLengthF3                    ID = 101
	FnLengthF4                    ID = 102
	FnDFdxF                       ID = 103
	FnDFdxF2                      ID = 104
	FnDFdxF3                      ID = 105
	FnDFdxF4                      ID = 106
	FnDFdyF                       ID = 107
	FnDFdyF2                      ID = 108
	FnDFdyF3                      ID = 109
	FnDFdyF4                      ID = 110
	FnFwidthF                     ID = 111
	FnFwidthF2                    ID = 112
	FnFwidthF3                    ID = 113
	FnFwidthF4                    ID = 114
	FnNormalizeF2                 ID = 115
	FnDotF2F2                     ID = 116
	FnDistanceF2F2                ID = 117
	FnNormalizeF3                 ID = 118
	FnDotF3F3                     ID = 119
	FnDistanceF3F3                ID = 120
	FnNormalizeF4                 ID = 121
	FnDotF4F4                     ID = 122
	FnDistanceF4F4                ID = 123
	FnDotFF                       ID = 124
	FnCrossF3F3                   ID = 125
	FnMinFF                       ID = 126
	FnMaxFF                       ID = 127
	FnPowFF                       ID = 128
	FnClampFFF                    ID = 129
	FnMixFFF                      ID = 130
	FnMinF2F2                     ID = 131
	FnMaxF2F2                     ID = 132
	FnPowF2F2                     ID = 133
	FnClampF2F2F2                 ID = 134
	FnMixF2F2F                    ID = 135
	FnMinF3F3                     ID = 136
	FnMaxF3F3                     ID = 137
	FnPowF3F3                     ID = 138
	FnClampF3F3F3                 ID = 139
	FnMixF3F3F                    ID = 140
	FnMinF4F4                     ID = 141
	FnMaxF4F4                     ID = 142
	FnPowF4F4                     ID = 143
	FnClampF4F4F4                 ID = 144
	FnMixF4F4F                    ID = 145
	FnStepFF                      ID = 146
	FnSmoothstepFFF               ID = 147
	FnTransposeM22                ID = 148
	FnTransposeM33                ID = 149
	FnTransposeM44                ID = 150
	FnTransposeM34                ID = 151
	FnTransposeM43                ID = 152
	FnTransposeM23                ID = 153
	FnTransposeM32                ID = 154
	FnTransposeM24                ID = 155
	FnTransposeM42                ID = 156
	FnInverseM22                  ID = 157
	FnDeterminantM22              ID = 158
	FnInverseM33                  ID = 159
	FnDeterminantM33              ID = 160
	FnInverseM44                  ID = 161
	FnDeterminantM44              ID = 162
	FnTextureS2DF2                ID = 163
	FnTextureS2DF2F               ID = 164
	FnTextureSCubeF3              ID = 165
	FnTextureS2DAF3               ID = 166
	FnTextureS3DF3                ID = 167
	FnTextureS2DSF3               ID = 168
	FnTextureLodS2DF2F            ID = 169
	FnTextureLodSCubeF3F          ID = 170
	FnTextureGradSCubeF3F3F3      ID = 171
	FnTexelFetchS2DI2I            ID = 172
	FnTextureSizeS2DI             ID = 173
	FnTextureSizeSCubeI           ID = 174
	FnTexture2DS2DF2              ID = 175
	FnTextureCubeSCubeF3          ID = 176
	FnFloatBitsToIntF             ID = 177
	FnIntBitsToFloatI             ID = 178
	FnFloatBitsToUintF            ID = 179
	FnUintBitsToFloatU            ID = 180
	FnPackUnorm4x8F4              ID = 181
	FnUnpackUnorm4x8U             ID = 182
	FnPackHalf2x16F2              ID = 183
	FnUnpackHalf2x16U             ID = 184
	FnBitCountI                   ID = 185
	FnBitCountU                   ID = 186
	FnAnyB2                       ID = 187
	FnAnyB3                       ID = 188
	FnAnyB4                       ID = 189
	FnAllB2                       ID = 190
	FnAllB3                       ID = 191
	FnAllB4                       ID = 192
	FnNotB2                       ID = 193
	FnNotB3                       ID = 194
	FnNotB4                       ID = 195
	FnBarrier                     ID = 196
	FnMemoryBarrier               ID = 197
	FnGroupMemoryBarrier          ID = 198
	FnMemoryBarrierShared         ID = 199
	FnEmitVertex                  ID = 200
	FnEndPrimitive                ID = 201
	FnBeginInvocationInterlockARB ID = 202
	FnEndInvocationInterlockARB   ID = 203
)

const (
	variableCount = 46
	functionCount = 157
)

var unmangledNames = [variableCount]string{
	"gl_Position",
	"gl_PointSize",
	"gl_ClipDistance",
	"gl_CullDistance",
	"gl_VertexID",
	"gl_InstanceID",
	"gl_VertexIndex",
	"gl_InstanceIndex",
	"gl_FragCoord",
	"gl_FrontFacing",
	"gl_PointCoord",
	"gl_FragColor",
	"gl_FragData",
	"gl_FragDepth",
	"gl_FragDepthEXT",
	"gl_SampleMask",
	"gl_SampleMaskIn",
	"gl_SampleID",
	"gl_SamplePosition",
	"gl_DepthRange",
	"gl_LastFragData",
	"gl_in",
	"gl_out",
	"gl_PrimitiveID",
	"gl_PrimitiveIDIn",
	"gl_Layer",
	"gl_InvocationID",
	"gl_PatchVerticesIn",
	"gl_TessLevelOuter",
	"gl_TessLevelInner",
	"gl_TessCoord",
	"gl_HelperInvocation",
	"gl_NumWorkGroups",
	"gl_WorkGroupID",
	"gl_LocalInvocationID",
	"gl_GlobalInvocationID",
	"gl_LocalInvocationIndex",
	"gl_WorkGroupSize",
	"gl_ViewID_OVR",
	"gl_MaxDrawBuffers",
	"gl_MaxVertexAttribs",
	"gl_MaxClipDistances",
	"gl_MaxCullDistances",
	"gl_MaxPatchVertices",
	"gl_MaxTextureImageUnits",
	"gl_MaxVaryingVectors",
}

var mangledNames = [functionCount]string{
	"radians(f",
	"radians(f2",
	"radians(f3",
	"radians(f4",
	"degrees(f",
	"degrees(f2",
	"degrees(f3",
	"degrees(f4",
	"sin(f",
	"sin(f2",
	"sin(f3",
	"sin(f4",
	"cos(f",
	"cos(f2",
	"cos(f3",
	"cos(f4",
	"tan(f",
	"tan(f2",
	"tan(f3",
	"tan(f4",
	"exp(f",
	"exp(f2",
	"exp(f3",
	"exp(f4",
	"log(f",
	"log(f2",
	"log(f3",
	"log(f4",
	"sqrt(f",
	"sqrt(f2",
	"sqrt(f3",
	"sqrt(f4",
	"inversesqrt(f",
	"inversesqrt(f2",
	"inversesqrt(f3",
	"inversesqrt(f4",
	"abs(f",
	"abs(f2",
	"abs(f3",
	"abs(f4",
	"sign(f",
	"sign(f2",
	"sign(f3",
	"sign(f4",
	"floor(f",
	"floor(f2",
	"floor(f3",
	"floor(f4",
	"fract(f",
	"fract(f2",
	"fract(f3",
	"fract(f4",
	"length(f",
	"length(f2",
	"length(f3",
	"length(f4",
	"dFdx(f",
	"dFdx(f2",
	"dFdx(f3",
	"dFdx(f4",
	"dFdy(f",
	"dFdy(f2",
	"dFdy(f3",
	"dFdy(f4",
	"fwidth(f",
	"fwidth(f2",
	"fwidth(f3",
	"fwidth(f4",
	"normalize(f2",
	"dot(f2f2",
	"distance(f2f2",
	"normalize(f3",
	"dot(f3f3",
	"distance(f3f3",
	"normalize(f4",
	"dot(f4f4",
	"distance(f4f4",
	"dot(ff",
	"cross(f3f3",
	"min(ff",
	"max(ff",
	"pow(ff",
	"clamp(fff",
	"mix(fff",
	"min(f2f2",
	"max(f2f2",
	"pow(f2f2",
	"clamp(f2f2f2",
	"mix(f2f2f",
	"min(f3f3",
	"max(f3f3",
	"pow(f3f3",
	"clamp(f3f3f3",
	"mix(f3f3f",
	"min(f4f4",
	"max(f4f4",
	"pow(f4f4",
	"clamp(f4f4f4",
	"mix(f4f4f",
	"step(ff",
	"smoothstep(fff",
	"transpose(m22",
	"transpose(m33",
	"transpose(m44",
	"transpose(m34",
	"transpose(m43",
	"transpose(m23",
	"transpose(m32",
	"transpose(m24",
	"transpose(m42",
	"inverse(m22",
	"determinant(m22",
	"inverse(m33",
	"determinant(m33",
	"inverse(m44",
	"determinant(m44",
	"texture(s2Df2",
	"texture(s2Df2f",
	"texture(sCubef3",
	"texture(s2DAf3",
	"texture(s3Df3",
	"texture(s2DSf3",
	"textureLod(s2Df2f",
	"textureLod(sCubef3f",
	"textureGrad(sCubef3f3f3",
	"texelFetch(s2Di2i",
	"textureSize(s2Di",
	"textureSize(sCubei",
	"texture2D(s2Df2",
	"textureCube(sCubef3",
	"floatBitsToInt(f",
	"intBitsToFloat(i",
	"floatBitsToUint(f",
	"uintBitsToFloat(u",
	"packUnorm4x8(f4",
	"unpackUnorm4x8(u",
	"packHalf2x16(f2",
	"unpackHalf2x16(u",
	"bitCount(i",
	"bitCount(u",
	"any(b2",
	"any(b3",
	"any(b4",
	"all(b2",
	"all(b3",
	"all(b4",
	"not(b2",
	"not(b3",
	"not(b4",
	"barrier(",
	"memoryBarrier(",
	"groupMemoryBarrier(",
	"memoryBarrierShared(",
	"EmitVertex(",
	"EndPrimitive(",
	"beginInvocationInterlockARB(",
	"endInvocationInterlockARB(",
}
