// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package passes holds the rewrite passes that prepare a validated shader
// tree for an output dialect, and the pipelines that run them in order.
//
// Passes that create symbols name them with InternalPrefix, which front
// ends never accept in user identifiers.
package passes

import (
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

// InternalPrefix starts the name of every symbol a pass introduces.
const InternalPrefix = "__"

// Metal returns the pipeline for Metal Shading Language output.
func Metal() *pipeline.Pipeline {
	return pipeline.MustNew("metal", target.Metal,
		SeparateDeclarations(),
		ToposortStructs(),
		RewriteGlobalQualifierDecls(),
		ReduceInterfaceBlocks(),
		HoistConstants(),
		DeclareDriverUniforms(),
		SeparateStructSamplers(),
		HoistDefaultUniforms(),
		AssignBindings(),
		RewriteRowMajorMatrices(),
		ReplaceDepthRange(),
		EmulateFragOutputs(),
		FlipFragCoord(),
		FlipPointCoord(),
		FlipDerivatives(),
		ReplaceClipDistance(),
		ReplaceCullDistance(),
		AppendPreRotation(),
		FlipPositionY(),
		TransformDepth(),
		ClampPointSize(),
		InsertRasterizationDiscard(),
		InsertSampleMaskWrite(),
		RewriteKeywords(),
	)
}

// Vulkan returns the pipeline for Vulkan GLSL output.
func Vulkan() *pipeline.Pipeline {
	return pipeline.MustNew("vulkan", target.Vulkan,
		SeparateDeclarations(),
		ToposortStructs(),
		RewriteGlobalQualifierDecls(),
		DeclareDriverUniforms(),
		SeparateStructSamplers(),
		HoistDefaultUniforms(),
		AssignBindings(),
		RewriteRowMajorMatrices(),
		ReplaceDepthRange(),
		EmulateFragOutputs(),
		FlipFragCoord(),
		FlipPointCoord(),
		FlipDerivatives(),
		ReplaceClipDistance(),
		ReplaceCullDistance(),
		AppendPreRotation(),
		FlipPositionY(),
		TransformDepth(),
		ClampPointSize(),
		DeclarePerVertexBlocks(),
		RewriteKeywords(),
	)
}

// ForDialect returns the pipeline for d.
func ForDialect(d target.Dialect) (*pipeline.Pipeline, bool) {
	switch d {
	case target.Metal:
		return Metal(), true
	case target.Vulkan:
		return Vulkan(), true
	}
	return nil, false
}
