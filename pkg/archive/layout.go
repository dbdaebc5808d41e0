package archive

import (
	"path"
	"strings"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// Layout names where one vendor archive keeps each artifact. Paths are
// slash-separated archive paths, "." meaning the archive root. DocFile
// and ModelDir may be empty; a missing documentation source is
// synthesized by the importer and a missing model directory means the
// archive ships no 3D model.
type Layout struct {
	Remote       types.RemoteType
	DocFile      string
	SymbolFile   string
	FootprintDir string
	ModelDir     string
}

// DetectLayout probes the vendor layouts in fixed priority order and
// returns the first that claims the archive. An archive that matches a
// layout's marker but is missing that layout's mandatory artifacts is
// an error, not a fall-through to the next layout.
func (a *Archive) DetectLayout() (Layout, error) {
	detectors := []func() (Layout, bool, error){
		a.detectOctopart,
		a.detectSamacsys,
		a.detectUltraLibrarian,
		a.detectSnapeda,
	}
	for _, detect := range detectors {
		layout, ok, err := detect()
		if err != nil {
			return Layout{}, err
		}
		if !ok {
			continue
		}
		a.logger.Debug().Str("archive", a.path).
			Str("remote", layout.Remote.String()).
			Str("doc", layout.DocFile).Str("symbol", layout.SymbolFile).
			Str("footprints", layout.FootprintDir).Str("models", layout.ModelDir).
			Msg("Detected archive layout")
		return layout, nil
	}
	return Layout{}, errors.Newf(errors.ErrUnknownLayout,
		"%s does not match any known vendor layout", a.path)
}

// Octopart archives carry device.dcm, device.lib and a device.pretty
// directory at the root, with the model beside them.
func (a *Archive) detectOctopart() (Layout, bool, error) {
	if !a.hasFile("device.dcm") || !a.hasFile("device.lib") || !a.hasDir("device.pretty") {
		return Layout{}, false, nil
	}
	return Layout{
		Remote:       types.RemoteOctopart,
		DocFile:      "device.dcm",
		SymbolFile:   "device.lib",
		FootprintDir: "device.pretty",
		ModelDir:     ".",
	}, true, nil
}

// Samacsys archives keep everything under a directory ending in
// "KiCad". The .dcm and .lib sit somewhere below it and the directory
// itself holds the footprints.
func (a *Archive) detectSamacsys() (Layout, bool, error) {
	dir, ok := a.findDir("KiCad")
	if !ok {
		return Layout{}, false, nil
	}
	docFile, hasDoc := a.findFile(dir, ".dcm")
	symbolFile, hasSymbol := a.findFile(dir, ".lib")
	if !hasDoc || !hasSymbol {
		return Layout{}, false, errors.Newf(errors.ErrUnknownLayout,
			"%s is not a SAMACSYS archive: %s has no .dcm and .lib", a.path, dir)
	}
	return Layout{
		Remote:       types.RemoteSamacsys,
		DocFile:      docFile,
		SymbolFile:   symbolFile,
		FootprintDir: dir,
	}, true, nil
}

// Ultra Librarian archives keep a KiCAD directory at the root with the
// .dcm, .lib and a .pretty directory below it. The model lives outside
// the KiCAD directory.
func (a *Archive) detectUltraLibrarian() (Layout, bool, error) {
	if !a.hasDir("KiCAD") {
		return Layout{}, false, nil
	}
	docFile, _ := a.findFile("KiCAD", ".dcm")
	symbolFile, hasSymbol := a.findFile("KiCAD", ".lib")
	footprintDir, hasFootprints := a.findDirUnder("KiCAD", ".pretty")
	if !hasSymbol || !hasFootprints {
		return Layout{}, false, errors.Newf(errors.ErrUnknownLayout,
			"%s is not an ULTRA_LIBRARIAN archive: KiCAD has no .lib and .pretty", a.path)
	}
	modelDir := ""
	if step, ok := a.findFile(".", ".step"); ok {
		modelDir = path.Dir(step)
	}
	return Layout{
		Remote:       types.RemoteUltraLibrarian,
		DocFile:      docFile,
		SymbolFile:   symbolFile,
		FootprintDir: footprintDir,
		ModelDir:     modelDir,
	}, true, nil
}

// Snapeda archives are flat: the first .lib anywhere marks the layout
// and the root holds footprints and model.
func (a *Archive) detectSnapeda() (Layout, bool, error) {
	symbolFile, ok := a.findFile(".", ".lib")
	if !ok {
		return Layout{}, false, nil
	}
	docFile, _ := a.findFile(".", ".dcm")
	return Layout{
		Remote:       types.RemoteSnapeda,
		DocFile:      docFile,
		SymbolFile:   symbolFile,
		FootprintDir: ".",
		ModelDir:     ".",
	}, true, nil
}

// findDirUnder returns the first directory below parent whose base name
// ends with suffix.
func (a *Archive) findDirUnder(parent, suffix string) (string, bool) {
	prefix := parent + "/"
	for _, e := range a.entries {
		if !e.isDir || !strings.HasPrefix(e.name, prefix) {
			continue
		}
		if strings.HasSuffix(path.Base(e.name), suffix) {
			return e.name, true
		}
	}
	return "", false
}

// Footprints returns the footprint definition files directly inside the
// layout's footprint directory, in archive order.
func (a *Archive) Footprints(layout Layout) []string {
	var out []string
	for _, e := range a.children(layout.FootprintDir) {
		if e.isDir {
			continue
		}
		if strings.HasSuffix(e.name, ".kicad_mod") || strings.HasSuffix(e.name, ".mod") {
			out = append(out, e.name)
		}
	}
	return out
}

// Models returns the 3D model files directly inside the layout's model
// directory, in archive order.
func (a *Archive) Models(layout Layout) []string {
	if layout.ModelDir == "" {
		return nil
	}
	var out []string
	for _, e := range a.children(layout.ModelDir) {
		if e.isDir {
			continue
		}
		if strings.HasSuffix(e.name, ".step") {
			out = append(out, e.name)
		}
	}
	return out
}
