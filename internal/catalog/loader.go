package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

//go:embed data/catalog.json data/catalog.schema.json
var dataFS embed.FS

const schemaURL = "catalog.schema.json"

// Document is the on-disk catalog shape
type Document struct {
	Properties []domain.Property `json:"properties"`
	Tours      []domain.Tour     `json:"tours"`
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := dataFS.ReadFile("data/catalog.schema.json")
	if err != nil {
		return nil, fmt.Errorf("read catalog schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add catalog schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Parse validates raw JSON against the catalog schema and decodes it
func Parse(b []byte) (Document, error) {
	schema, err := compiledSchema()
	if err != nil {
		return Document{}, err
	}

	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return Document{}, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return Document{}, fmt.Errorf("validate catalog: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return doc, nil
}

// EmbeddedDocument returns the sample data compiled into the binary
func EmbeddedDocument() (Document, error) {
	b, err := dataFS.ReadFile("data/catalog.json")
	if err != nil {
		return Document{}, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(b)
}

// Embedded builds a catalog from the embedded sample data
func Embedded() (*Catalog, error) {
	doc, err := EmbeddedDocument()
	if err != nil {
		return nil, err
	}
	return New(doc.Properties, doc.Tours)
}

// LoadFile reads, validates and builds a catalog from a JSON file
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	doc, err := Parse(b)
	if err != nil {
		return nil, err
	}
	return New(doc.Properties, doc.Tours)
}
