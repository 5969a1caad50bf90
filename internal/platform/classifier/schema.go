package classifier

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed artifact.schema.json
var artifactSchemaJSON []byte

const artifactSchemaURL = "schema://ckd-classifier-v1.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func artifactSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(artifactSchemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse artifact schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(artifactSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add artifact schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(artifactSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks raw artifact JSON against the embedded schema.
func validateDocument(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := artifactSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
