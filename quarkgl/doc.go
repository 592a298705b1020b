// Package quarkgl provides a minimal, predictable software renderer used as a
// stand-in GPU when no OpenGL context is available.
//
// Pipeline (fixed):
//
//	Vertices → MVP transform → Clipping → Rasterization (depth tested,
//	per-vertex colour) → Target.
//
// Shader stages are not executed. ParseGLSL and Link validate GLSL sources
// and their stage interfaces so that compile and link failures surface the
// same way they would on a driver; the pipeline itself always transforms
// positions by a single matrix and interpolates per-vertex colours.
package quarkgl
