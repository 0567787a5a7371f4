// Package gen implements the build-time code generator: it turns a
// catalogue.Document plus a catalogue.Manifest into Go source defining one
// message structure, descriptor, and FieldAccess implementation per listed
// PGN, and one enumeration per lookup table the listed PGNs reference
// (4.C Code Generator).
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/wavesense/n2k/catalogue"
	"github.com/wavesense/n2k/internal/utils"
	"go.uber.org/zap"
)

// Result is the generator's output: rendered Go source plus any warnings
// accumulated while skipping malformed entries.
type Result struct {
	Source   []byte
	Warnings []Warning
}

// Generate renders package pkgName containing one type per PGN named in
// manifest and present in doc, plus every lookup table those PGNs reference.
// Malformed PGN entries are skipped with a logged warning rather than
// aborting generation (4.C "Error policy"); logger may be nil.
func Generate(doc catalogue.Document, manifest catalogue.Manifest, pkgName string, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var result Result
	wanted := doc.PGNs.FilterByManifest(manifest)

	var models []PgnModel
	referenced := map[string]bool{}
	for _, p := range wanted {
		m, warnings, ok := BuildPgnModel(p)
		result.Warnings = append(result.Warnings, warnings...)
		for _, w := range warnings {
			logger.Warn("skipping malformed PGN", zap.Uint32("pgn", w.PGN), zap.String("reason", w.Message))
		}
		if !ok {
			continue
		}
		models = append(models, m)
		markReferencedLookups(p, referenced)
	}

	var directLookups []LookupModel
	for _, l := range doc.LookupEnumerations {
		if referenced[l.Name] {
			directLookups = append(directLookups, BuildDirectLookupModel(l))
		}
	}
	var indirectLookups []LookupModel
	for _, l := range doc.LookupIndirectEnumerations {
		if referenced[l.Name] {
			indirectLookups = append(indirectLookups, BuildIndirectLookupModel(l))
		}
	}
	var bitLookups []LookupModel
	for _, l := range doc.LookupBitEnumerations {
		if referenced[l.Name] {
			bitLookups = append(bitLookups, BuildBitLookupModel(l))
		}
	}

	data := struct {
		Package         string
		PGNs            []PgnModel
		DirectLookups   []LookupModel
		IndirectLookups []LookupModel
		BitLookups      []LookupModel
	}{
		Package:         pkgName,
		PGNs:            models,
		DirectLookups:   directLookups,
		IndirectLookups: indirectLookups,
		BitLookups:      bitLookups,
	}

	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, data); err != nil {
		return Result{}, fmt.Errorf("gen: render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Fall back to the unformatted text rather than fail the build: a
		// template bug should surface as a diff in the generated file, not
		// a build abort (4.C "Error policy" extends the same leniency here).
		logger.Warn("generated source failed gofmt, emitting as-is", zap.Error(err))
		formatted = buf.Bytes()
	}
	result.Source = formatted
	return result, nil
}

func markReferencedLookups(p catalogue.PGN, referenced map[string]bool) {
	for _, f := range p.Fields {
		if f.LookupEnumeration != nil {
			referenced[*f.LookupEnumeration] = true
		}
		if f.LookupIndirectEnumeration != nil {
			referenced[*f.LookupIndirectEnumeration] = true
		}
		if f.LookupBitEnumeration != nil {
			referenced[*f.LookupBitEnumeration] = true
		}
	}
}

// sanitizeComment escapes control characters in catalogue free text so it
// can be embedded as a single-line Go doc comment.
func sanitizeComment(s string) string {
	return utils.FormatSpaces([]byte(s))
}

// fieldToValue renders the expression that wraps a struct field (accessed as
// prefix+fd.GoName) into an n2k.PgnValue, matching the Go type buildFieldModel
// chose for fd.
func fieldToValue(fd FieldModel, prefix string) string {
	ref := prefix + fd.GoName
	switch fd.GoType {
	case "uint8":
		return fmt.Sprintf("n2k.U8Value(%s)", ref)
	case "uint16":
		return fmt.Sprintf("n2k.U16Value(%s)", ref)
	case "uint32":
		return fmt.Sprintf("n2k.U32Value(%s)", ref)
	case "uint64":
		return fmt.Sprintf("n2k.U64Value(%s)", ref)
	case "int8":
		return fmt.Sprintf("n2k.I8Value(%s)", ref)
	case "int16":
		return fmt.Sprintf("n2k.I16Value(%s)", ref)
	case "int32":
		return fmt.Sprintf("n2k.I32Value(%s)", ref)
	case "int64":
		return fmt.Sprintf("n2k.I64Value(%s)", ref)
	case "float32":
		return fmt.Sprintf("n2k.F32Value(%s)", ref)
	case "float64":
		return fmt.Sprintf("n2k.F64Value(%s)", ref)
	case "n2k.PgnBytes":
		return fmt.Sprintf("n2k.BytesValue(%s)", ref)
	default:
		return fmt.Sprintf("n2k.U32Value(uint32(%s))", ref)
	}
}

// valueToField renders the expression that unwraps an n2k.PgnValue named
// "value" into fd's Go type, the inverse of fieldToValue.
func valueToField(fd FieldModel) string {
	switch fd.GoType {
	case "uint8", "uint16", "uint32", "uint64":
		if fd.GoType == "uint64" {
			return "value.AsUint64()"
		}
		return fmt.Sprintf("%s(value.AsUint64())", fd.GoType)
	case "int8", "int16", "int32", "int64":
		if fd.GoType == "int64" {
			return "value.AsInt64()"
		}
		return fmt.Sprintf("%s(value.AsInt64())", fd.GoType)
	case "float32":
		return "float32(value.AsFloat64())"
	case "float64":
		return "value.AsFloat64()"
	case "n2k.PgnBytes":
		return "value.AsBytes()"
	default:
		return fmt.Sprintf("%s(value.AsUint64())", fd.GoType)
	}
}

var templateFuncs = template.FuncMap{
	"sanitize":     sanitizeComment,
	"fieldToValue": fieldToValue,
	"valueToField": valueToField,
}

var sourceTemplate = template.Must(template.New("source").Funcs(templateFuncs).Parse(`// Code generated by n2kgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/wavesense/n2k"
)

func n2kU32(v uint32) *uint32   { return &v }
func n2kBool(v bool) *bool      { return &v }
func n2kF32(v float32) *float32 { return &v }
func n2kInt(v int) *int         { return &v }
{{range .DirectLookups}}
{{template "lookup" .}}
{{end}}
{{range .IndirectLookups}}
{{template "lookup" .}}
{{end}}
{{range .BitLookups}}
{{template "lookup" .}}
{{end}}
{{range .PGNs}}
{{template "pgn" .}}
{{end}}
{{define "lookup"}}
// {{.GoName}} is a generated lookup enumeration.
type {{.GoName}} {{.ReprType}}

const (
{{range .Variants}}	{{$.GoName}}{{.GoName}} {{$.GoName}} = {{.Value}}
{{end}})

// {{.GoName}}FromValue converts a raw wire value to its enumeration, failing
// for any value absent from the catalogue (8. invariant 4).
func {{.GoName}}FromValue(v {{.ReprType}}) ({{.GoName}}, error) {
	switch {{.GoName}}(v) {
{{range .Variants}}	case {{$.GoName}}{{.GoName}}:
		return {{$.GoName}}{{.GoName}}, nil
{{end}}	default:
		return 0, n2k.ErrFieldAssignmentFailed
	}
}
{{end}}
{{define "pgn"}}
// {{.GoName}} is PGN {{.ID}}{{if .Description}}: {{sanitize .Description}}{{end}}.
type {{.GoName}} struct {
{{if not .Group}}	n2k.NoRepeatingFields
{{end}}{{range .Fields}}{{if .GoType}}	{{.GoName}} {{.GoType}} // {{.ID}}{{if .Comment}}: {{sanitize .Comment}}{{end}}
{{end}}{{end}}{{if .Group}}	{{.Group.EntryGoName}}Count int
	{{.Group.EntryGoName}}s   [{{.Group.MaxRepetitions}}]{{.Group.EntryGoName}}
{{end}}}
{{if .Group}}
// {{.Group.EntryGoName}} is one element of {{.GoName}}'s repeating field set.
type {{.Group.EntryGoName}} struct {
{{range .Group.Fields}}{{if .GoType}}	{{.GoName}} {{.GoType}} // {{.ID}}{{if .Comment}}: {{sanitize .Comment}}{{end}}
{{end}}{{end}}}
{{end}}
// New{{.GoName}} returns a zero-initialised {{.GoName}}.
func New{{.GoName}}() *{{.GoName}} { return &{{.GoName}}{} }

var {{.GoName}}Descriptor = n2k.PgnDescriptor{
	ID:         {{.ID}},
	Name:       {{printf "%q" .GoName}},
	Description: {{printf "%q" .Description}},
	FastPacket: {{.FastPacket}},
	Fields: []n2k.FieldDescriptor{
{{range .Fields}}		{ID: {{printf "%q" .ID}}, Kind: n2k.{{.Kind}}{{if .BitsLength}}, BitsLength: n2kU32({{.BitsLength}}){{end}}{{if .Signed}}, IsSigned: n2kBool(true){{end}}{{if .HasResolution}}, Resolution: n2kF32({{.Resolution}}){{end}}},
{{end}}{{if .Group}}{{range .Group.Fields}}		{ID: {{printf "%q" .ID}}, Kind: n2k.{{.Kind}}{{if .BitsLength}}, BitsLength: n2kU32({{.BitsLength}}){{end}}{{if .Signed}}, IsSigned: n2kBool(true){{end}}{{if .HasResolution}}, Resolution: n2kF32({{.Resolution}}){{end}}},
{{end}}{{end}}	},
{{if .Group}}	RepeatingFieldSets: []n2k.RepeatingFieldSet{
		{ArrayID: {{printf "%q" .Group.ArrayID}}, CountFieldIndex: n2kInt({{.Group.CountFieldIndex}}), StartFieldIndex: {{.Group.StartFieldIndex}}, Size: {{.Group.Size}}, MaxRepetitions: {{.Group.MaxRepetitions}}},
	},
{{end}}}

// Descriptor implements n2k.PgnData.
func (m *{{.GoName}}) Descriptor() *n2k.PgnDescriptor { return &{{.GoName}}Descriptor }

// Field implements n2k.FieldAccess. Reserved/Spare fields have no backing
// struct field but still answer Field so Serialize can read past them.
func (m *{{.GoName}}) Field(id string) (n2k.PgnValue, bool) {
	switch id {
{{range .Fields}}	case {{printf "%q" .ID}}:
{{if .GoType}}		return {{fieldToValue . "m."}}, true
{{else}}		return n2k.IgnoredValue(), true
{{end}}{{end}}	default:
		return n2k.PgnValue{}, false
	}
}

// FieldMut implements n2k.FieldAccess.
func (m *{{.GoName}}) FieldMut(id string, value n2k.PgnValue) bool {
	switch id {
{{range .Fields}}{{if .GoType}}	case {{printf "%q" .ID}}:
		m.{{.GoName}} = {{valueToField .}}
		return true
{{end}}{{end}}	default:
		return false
	}
}
{{if .Group}}
// RepetitiveField implements n2k.FieldAccess.
func (m *{{.GoName}}) RepetitiveField(arrayID string, index int, fieldID string) (n2k.PgnValue, bool) {
	if arrayID != {{printf "%q" .Group.ArrayID}} || index < 0 || index >= m.{{.Group.EntryGoName}}Count {
		return n2k.PgnValue{}, false
	}
	e := &m.{{.Group.EntryGoName}}s[index]
	switch fieldID {
{{range .Group.Fields}}	case {{printf "%q" .ID}}:
{{if .GoType}}		return {{fieldToValue . "e."}}, true
{{else}}		return n2k.IgnoredValue(), true
{{end}}{{end}}	default:
		return n2k.PgnValue{}, false
	}
}

// RepetitiveFieldMut implements n2k.FieldAccess.
func (m *{{.GoName}}) RepetitiveFieldMut(arrayID string, index int, fieldID string, value n2k.PgnValue) bool {
	if arrayID != {{printf "%q" .Group.ArrayID}} || index < 0 || index >= len(m.{{.Group.EntryGoName}}s) {
		return false
	}
	e := &m.{{.Group.EntryGoName}}s[index]
	switch fieldID {
{{range .Group.Fields}}{{if .GoType}}	case {{printf "%q" .ID}}:
		e.{{.GoName}} = {{valueToField .}}
		return true
{{end}}{{end}}	default:
		return false
	}
}

// RepetitiveCount implements n2k.FieldAccess.
func (m *{{.GoName}}) RepetitiveCount(arrayID string) (int, bool) {
	if arrayID != {{printf "%q" .Group.ArrayID}} {
		return 0, false
	}
	return m.{{.Group.EntryGoName}}Count, true
}

// SetRepetitiveCount implements n2k.FieldAccess.
func (m *{{.GoName}}) SetRepetitiveCount(arrayID string, count int) bool {
	if arrayID != {{printf "%q" .Group.ArrayID}} || count > len(m.{{.Group.EntryGoName}}s) {
		return false
	}
	m.{{.Group.EntryGoName}}Count = count
	return true
}
{{end}}
{{end}}
`))
