package validator

import (
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/erraggy/datafile/document"
)

// Descriptor kinds.
const (
	KindSchemaNotFound = "SchemaNotFoundError"
	KindSchema         = "SchemaError"
	KindObject         = "ObjectValidationError"
	KindType           = "TypeValidationError"
	KindString         = "StringValidationError"
	KindNumeric        = "NumericValidationError"
	KindArray          = "ArrayValidationError"
	KindEnum           = "EnumValidationError"
	KindComposition    = "CompositionValidationError"
	KindValidation     = "ValidationError"
)

// DescNoSchema is the description of a KindSchemaNotFound descriptor.
const DescNoSchema = "No schema provided for validation."

// Descriptor describes the violations of one rule category.
type Descriptor struct {
	// Kind classifies the problem, for example "ObjectValidationError".
	Kind string `json:"kind" yaml:"kind"`
	// Desc summarizes the problem, for example "missing: earthMass,moons".
	Desc string `json:"desc" yaml:"desc"`
	// Path is the JSON pointer of the first failing value in the data, for
	// example "#/planets/Mars". Empty for schema problems.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// kindOrder is the order descriptors are reported in.
var kindOrder = []string{
	KindObject,
	KindType,
	KindString,
	KindNumeric,
	KindArray,
	KindEnum,
	KindComposition,
	KindValidation,
}

var keywordKinds = map[string]string{
	"required":              KindObject,
	"dependentRequired":     KindObject,
	"dependency":            KindObject,
	"additionalProperties":  KindObject,
	"unevaluatedProperties": KindObject,
	"minProperties":         KindObject,
	"maxProperties":         KindObject,
	"propertyNames":         KindObject,
	"type":                  KindType,
	"minLength":             KindString,
	"maxLength":             KindString,
	"pattern":               KindString,
	"format":                KindString,
	"contentEncoding":       KindString,
	"contentMediaType":      KindString,
	"contentSchema":         KindString,
	"multipleOf":            KindNumeric,
	"minimum":               KindNumeric,
	"maximum":               KindNumeric,
	"exclusiveMinimum":      KindNumeric,
	"exclusiveMaximum":      KindNumeric,
	"minItems":              KindArray,
	"maxItems":              KindArray,
	"uniqueItems":           KindArray,
	"contains":              KindArray,
	"minContains":           KindArray,
	"maxContains":           KindArray,
	"additionalItems":       KindArray,
	"unevaluatedItems":      KindArray,
	"enum":                  KindEnum,
	"const":                 KindEnum,
	"anyOf":                 KindComposition,
	"oneOf":                 KindComposition,
	"not":                   KindComposition,
}

var printer = message.NewPrinter(language.English)

// violation is one failed keyword.
type violation struct {
	location string
	keyword  string
	kind     jsonschema.ErrorKind
}

// violations flattens the error tree into the failed keywords, sorted by
// instance location and keyword. Errors that only group their causes are
// descended into; anyOf, oneOf and not report their own failure.
func violations(err *jsonschema.ValidationError) []violation {
	var out []violation
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		switch k := e.ErrorKind.(type) {
		case *kind.Schema, *kind.Group, *kind.Reference, *kind.AllOf:
			for _, c := range e.Causes {
				walk(c)
			}
			return
		case *kind.Not:
			out = append(out, violation{location: document.Pointer(e.InstanceLocation...), keyword: "not", kind: k})
			return
		}
		keyword := ""
		if path := e.ErrorKind.KeywordPath(); len(path) > 0 {
			keyword = path[0]
		}
		out = append(out, violation{location: document.Pointer(e.InstanceLocation...), keyword: keyword, kind: e.ErrorKind})
	}
	walk(err)

	slices.SortStableFunc(out, func(a, b violation) int {
		if c := strings.Compare(a.location, b.location); c != 0 {
			return c
		}
		return strings.Compare(a.keyword, b.keyword)
	})
	return out
}

// describe groups violations into one descriptor per kind.
func describe(vs []violation) []Descriptor {
	byKind := make(map[string][]violation)
	for _, v := range vs {
		k, ok := keywordKinds[v.keyword]
		if !ok {
			k = KindValidation
		}
		byKind[k] = append(byKind[k], v)
	}

	var out []Descriptor
	for _, k := range kindOrder {
		group := byKind[k]
		if len(group) == 0 {
			continue
		}
		d := Descriptor{Kind: k, Path: group[0].location}
		if k == KindObject {
			d.Desc = objectDesc(group)
		} else {
			d.Desc = joinMessages(group)
		}
		out = append(out, d)
	}
	return out
}

// objectDesc lists missing and unexpected property names, followed by any
// other object violations.
func objectDesc(group []violation) string {
	var missing, unexpected []string
	var rest []violation
	add := func(list []string, names ...string) []string {
		for _, n := range names {
			if !slices.Contains(list, n) {
				list = append(list, n)
			}
		}
		return list
	}
	for _, v := range group {
		switch k := v.kind.(type) {
		case *kind.Required:
			missing = add(missing, k.Missing...)
		case *kind.DependentRequired:
			missing = add(missing, k.Missing...)
		case *kind.Dependency:
			missing = add(missing, k.Missing...)
		case *kind.AdditionalProperties:
			props := slices.Sorted(slices.Values(k.Properties))
			unexpected = add(unexpected, props...)
		default:
			rest = append(rest, v)
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ","))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected: "+strings.Join(unexpected, ","))
	}
	if len(rest) > 0 {
		parts = append(parts, joinMessages(rest))
	}
	return strings.Join(parts, "; ")
}

func joinMessages(group []violation) string {
	msgs := make([]string, 0, len(group))
	for _, v := range group {
		msg := v.kind.LocalizedString(printer)
		if v.location != "#" {
			msg = v.location + ": " + msg
		}
		if !slices.Contains(msgs, msg) {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}
