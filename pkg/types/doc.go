// Package types defines the shared types used across kicad-import:
// the vendor remote enumeration, the prompter capability injected into
// anything that needs operator confirmation, and the per-artifact
// result types an import run reports.
package types
