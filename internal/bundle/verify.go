package bundle

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/linkbundle/linkbundle/internal/kvstore"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	//go:embed schema/index.schema.json
	indexSchemaBytes []byte
	//go:embed schema/links.schema.json
	linksSchemaBytes []byte
)

const (
	indexSchemaID = "index.schema.json"
	linksSchemaID = "links.schema.json"
)

var (
	indexSchema *jsonschema.Schema
	linksSchema *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// Issue is a problem found in stored data.
type Issue struct {
	Bundle  string // empty for problems with the index itself
	Path    string // location inside the document, e.g. "/links/2"
	Message string
}

func (i Issue) String() string {
	where := "index"
	if i.Bundle != "" {
		where = fmt.Sprintf("bundle %q", i.Bundle)
	}
	if i.Path != "" {
		where += " " + i.Path
	}
	return where + ": " + i.Message
}

func getSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for id, raw := range map[string][]byte{indexSchemaID: indexSchemaBytes, linksSchemaID: linksSchemaBytes} {
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", id, err)
				return
			}
			if err := c.AddResource(id, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", id, err)
				return
			}
		}
		if indexSchema, compileErr = c.Compile(indexSchemaID); compileErr != nil {
			compileErr = fmt.Errorf("compiling index schema: %w", compileErr)
			return
		}
		if linksSchema, compileErr = c.Compile(linksSchemaID); compileErr != nil {
			compileErr = fmt.Errorf("compiling links schema: %w", compileErr)
		}
	})
	return indexSchema, linksSchema, compileErr
}

// Verify checks every stored document against its schema and format version,
// and cross-checks the index against the link records that exist. It only
// reads; repairing is left to the user.
func (s *Store) Verify(ctx context.Context) ([]Issue, error) {
	idxSchema, lnkSchema, err := getSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var issues []Issue

	indexDoc, err := s.readDoc(ctx, indexNamespace)
	if err != nil {
		return nil, storageErr("read index", "", err)
	}
	var entries []indexEntry
	if len(indexDoc) > 0 {
		issues = append(issues, validateDoc(idxSchema, "", indexDoc)...)
		issues = append(issues, versionIssue("", indexDoc)...)
		// A malformed index has already been reported above.
		if _, err := kvstore.GetJSON(ctx, s.kv, indexNamespace, bundlesKey, &entries); err != nil {
			entries = nil
		}
	}

	seen := make(map[string]bool, len(entries))
	referenced := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			issues = append(issues, Issue{Message: fmt.Sprintf("bundle %q is listed more than once", e.Name)})
			continue
		}
		seen[e.Name] = true
		referenced[e.namespace()] = true

		doc, err := s.readDoc(ctx, e.namespace())
		if err != nil {
			issues = append(issues, Issue{Bundle: e.Name, Message: err.Error()})
			continue
		}
		if _, ok := doc[linksKey]; !ok {
			issues = append(issues, Issue{Bundle: e.Name, Message: "link record is missing"})
			continue
		}
		issues = append(issues, validateDoc(lnkSchema, e.Name, doc)...)
		issues = append(issues, versionIssue(e.Name, doc)...)

		if links, ok := doc[linksKey].([]any); ok {
			for i, l := range links {
				if str, ok := l.(string); ok && str != "" && !IsValidURL(str) {
					issues = append(issues, Issue{
						Bundle:  e.Name,
						Path:    fmt.Sprintf("/%s/%d", linksKey, i),
						Message: fmt.Sprintf("%q %s", str, ErrInvalidURL),
					})
				}
			}
		}
	}

	namespaces, err := s.kv.Namespaces(ctx)
	if err != nil {
		return nil, storageErr("list records", "", err)
	}
	for _, ns := range namespaces {
		if strings.HasPrefix(ns, namespacePrefix) && !referenced[ns] {
			issues = append(issues, Issue{Message: fmt.Sprintf("record %s is not referenced by any bundle", ns)})
		}
	}

	return issues, nil
}

// readDoc assembles every key of a namespace into one JSON object.
func (s *Store) readDoc(ctx context.Context, namespace string) (map[string]any, error) {
	keys, err := s.kv.Keys(ctx, namespace)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any, len(keys))
	for _, k := range keys {
		raw, ok, err := s.kv.Get(ctx, namespace, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", namespace, k, err)
		}
		doc[k] = v
	}
	return doc, nil
}

func versionIssue(bundle string, doc map[string]any) []Issue {
	v, ok := doc[versionKey].(string)
	if !ok {
		return nil
	}
	if err := checkFormat(v); err != nil {
		return []Issue{{Bundle: bundle, Path: "/" + versionKey, Message: err.Error()}}
	}
	return nil
}

func validateDoc(schema *jsonschema.Schema, bundle string, doc map[string]any) []Issue {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []Issue{{Bundle: bundle, Message: err.Error()}}
	}

	var issues []Issue
	collectIssues(ve, bundle, &issues)
	if len(issues) == 0 {
		return []Issue{{Bundle: bundle, Message: ve.Error()}}
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

// collectIssues walks the error tree and keeps the leaves, which name the
// exact property that failed.
func collectIssues(ve *jsonschema.ValidationError, bundle string, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, bundle, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	msg := ve.Error()
	if ve.ErrorKind != nil {
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	*issues = append(*issues, Issue{Bundle: bundle, Path: path, Message: msg})
}
