// Package pipeline implements the document transformations behind the studio.
//
// This package handles the stages that operate on document text only:
//   - Extraction of <style> and <script> blocks from a combined document
//   - Composition of markup, style and script back into one document
//   - Header and footer template generation for Chrome's print API
//   - Margin clamping, unit conversion and millimetre normalization
//
// Rendering is handled by the root docstudio package using headless Chrome
// (go-rod or chromedp). The engine here uses structural pattern matching on
// purpose: documents are edited live and are often partially written, so
// every function degrades instead of failing.
package pipeline
