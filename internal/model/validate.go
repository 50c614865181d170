package model

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"meraki-api/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[domain.OutputType]*gojsonschema.Schema
	schemasErr  error
)

func loadSchemas() {
	schemas = make(map[domain.OutputType]*gojsonschema.Schema, len(domain.OutputTypes))
	for _, t := range domain.OutputTypes {
		b, err := schemaFS.ReadFile("schemas/" + string(t) + ".schema.json")
		if err != nil {
			schemasErr = fmt.Errorf("read schema %s: %w", t, err)
			return
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
		if err != nil {
			schemasErr = fmt.Errorf("compile schema %s: %w", t, err)
			return
		}
		schemas[t] = s
	}
}

// HasSchema reports whether t is a tag with a known schema.
func HasSchema(t domain.OutputType) bool {
	schemasOnce.Do(loadSchemas)
	_, ok := schemas[t]
	return ok
}

// Validate checks a structured task payload against the schema for its tag.
func Validate(t domain.OutputType, doc []byte) error {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	s, ok := schemas[t]
	if !ok {
		return fmt.Errorf("no schema for output type %q", t)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
