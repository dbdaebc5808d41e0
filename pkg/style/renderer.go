// Package style renders command output. The terminal renderer colors
// and decorates through lipgloss; the plain renderer emits the same
// information as unstyled text for pipes and NO_COLOR environments.
package style

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// Renderer defines the interface for rendering command output
type Renderer interface {
	RenderImport(res *types.ImportResult) string
	RenderArchives(paths []string) string
	RenderLedger(led *ledger.Ledger) string
	RenderError(err error) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct{}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderImport renders the outcome of one archive import
func (r *TerminalRenderer) RenderImport(res *types.ImportResult) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render(
		fmt.Sprintf("Imported %s from %s", res.Device, res.Remote)) + "\n")

	for _, a := range res.Artifacts {
		result.WriteString(Indent(r.renderArtifact(a), 1) + "\n")
	}

	if res.Zapped {
		result.WriteString(Indent(MutedStyle.Render(
			"deleted "+filepath.Base(res.Archive)), 1) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// renderArtifact renders a single artifact line
func (r *TerminalRenderer) renderArtifact(a types.ArtifactResult) string {
	kind := artifactStyle(a.Kind).Render(a.Kind.String())

	switch a.Status {
	case types.StatusMissing:
		return fmt.Sprintf("%s %s %s", PendingIndicator, kind,
			MutedStyle.Render("not in archive"))
	case types.StatusSkipped:
		return fmt.Sprintf("%s %s %s %s", InfoIndicator, kind, a.Name,
			MutedStyle.Render("kept existing"))
	}

	line := fmt.Sprintf("%s %s %s → %s", SuccessIndicator, kind, a.Name,
		PathStyle.Render(a.Target))
	if a.Status == types.StatusReplaced {
		line += " " + MutedStyle.Render("(replaced)")
	}
	return line
}

// RenderArchives renders the list of importable archives
func (r *TerminalRenderer) RenderArchives(paths []string) string {
	if len(paths) == 0 {
		return MutedStyle.Render("No archives found")
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render("Downloaded archives") + "\n")
	for _, p := range paths {
		result.WriteString(Indent(fmt.Sprintf("%s %s %s", InfoIndicator,
			Bold(filepath.Base(p)), MutedStyle.Render(filepath.Dir(p))), 1) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderLedger renders the side effects recorded by a run
func (r *TerminalRenderer) RenderLedger(led *ledger.Ledger) string {
	if led.Empty() {
		return MutedStyle.Render("No changes were made")
	}

	var result strings.Builder
	result.WriteString(WarningStyle.Render("Modified so far:") + "\n")
	for _, e := range led.Entries {
		result.WriteString(Indent(fmt.Sprintf("%s %s",
			MutedStyle.Render(string(e.Kind)), PathStyle.Render(e.Path)), 1) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	if importErr, ok := errors.AsImportError(err); ok {
		msg := importErr.Message
		if importErr.Wrapped != nil {
			msg += ": " + importErr.Wrapped.Error()
		}
		return fmt.Sprintf("%s %s %s", ErrorIndicator,
			ErrorStyle.Render("["+string(importErr.Code)+"]"), msg)
	}

	return fmt.Sprintf("%s %s", ErrorIndicator, err.Error())
}

func artifactStyle(kind types.ArtifactKind) lipgloss.Style {
	switch kind {
	case types.KindSymbol:
		return SymbolStyle
	case types.KindFootprint:
		return FootprintStyle
	case types.KindModel3D:
		return ModelStyle
	default:
		return DescriptionStyle
	}
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderImport renders a plain import outcome
func (r *PlainRenderer) RenderImport(res *types.ImportResult) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Imported %s from %s\n", res.Device, res.Remote))

	for _, a := range res.Artifacts {
		switch a.Status {
		case types.StatusMissing:
			result.WriteString(fmt.Sprintf("  %s: not in archive\n", a.Kind))
		case types.StatusSkipped:
			result.WriteString(fmt.Sprintf("  %s %s: skipped\n", a.Kind, a.Name))
		default:
			result.WriteString(fmt.Sprintf("  %s %s: %s -> %s\n",
				a.Kind, a.Name, a.Status, a.Target))
		}
	}

	if res.Zapped {
		result.WriteString(fmt.Sprintf("  deleted %s\n", filepath.Base(res.Archive)))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderArchives renders a plain archive list
func (r *PlainRenderer) RenderArchives(paths []string) string {
	if len(paths) == 0 {
		return "No archives found"
	}

	var result strings.Builder
	result.WriteString("Downloaded archives:\n")
	for _, p := range paths {
		result.WriteString(fmt.Sprintf("  - %s\n", p))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderLedger renders plain ledger entries
func (r *PlainRenderer) RenderLedger(led *ledger.Ledger) string {
	if led.Empty() {
		return "No changes were made"
	}

	var result strings.Builder
	result.WriteString("Modified so far:\n")
	for _, e := range led.Entries {
		result.WriteString(fmt.Sprintf("  %s %s\n", e.Kind, e.Path))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
