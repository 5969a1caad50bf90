package openapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hiraubaid75/ckd-prediction-system/internal/domain/ckd"
)

// Generator builds an OpenAPI 3.0 document for the JSON API from the clinical
// field schema.
type Generator struct {
	version string
	baseURL string
}

// NewGenerator creates a new OpenAPI spec generator.
func NewGenerator(version, baseURL string) *Generator {
	return &Generator{version: version, baseURL: baseURL}
}

// GenerateSpec produces the OpenAPI 3.0 document as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := map[string]interface{}{
		"/api/v1/schema": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Clinical input fields",
				"operationId": "getSchema",
				"tags":        []string{"prediction"},
				"responses": map[string]interface{}{
					"200": jsonResponse("Field schema and decision threshold", "#/components/schemas/FieldSchema"),
				},
			},
		},
		"/api/v1/model": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Loaded classifier",
				"operationId": "getModel",
				"tags":        []string{"prediction"},
				"responses": map[string]interface{}{
					"200": jsonResponse("Classifier description", "#/components/schemas/ModelInfo"),
					"503": jsonResponse("No classifier loaded", "#/components/schemas/Error"),
				},
			},
		},
		"/api/v1/predictions": map[string]interface{}{
			"post": map[string]interface{}{
				"summary":     "Score one clinical record",
				"operationId": "createPrediction",
				"tags":        []string{"prediction"},
				"requestBody": map[string]interface{}{
					"required": true,
					"content": map[string]interface{}{
						echo.MIMEApplicationJSON: map[string]interface{}{
							"schema": map[string]interface{}{"$ref": "#/components/schemas/ClinicalRecord"},
						},
					},
				},
				"responses": map[string]interface{}{
					"201": jsonResponse("Probability of CKD", "#/components/schemas/Prediction"),
					"400": jsonResponse("Malformed body or value outside a field's domain", "#/components/schemas/Error"),
					"413": jsonResponse("Body too large", "#/components/schemas/Error"),
					"422": jsonResponse("Record could not be scored", "#/components/schemas/Error"),
					"503": jsonResponse("No classifier loaded", "#/components/schemas/Error"),
				},
			},
		},
		"/health": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Liveness and model status",
				"operationId": "health",
				"tags":        []string{"operations"},
				"responses": map[string]interface{}{
					"200": jsonResponse("Server is up", "#/components/schemas/Health"),
				},
			},
		},
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "CKD Prediction API",
			"version":     g.version,
			"description": "Scores clinical records with a pre-trained chronic kidney disease classifier",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": buildComponentSchemas(),
		},
	}
}

func jsonResponse(description, schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			echo.MIMEApplicationJSON: map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

func buildComponentSchemas() map[string]interface{} {
	return map[string]interface{}{
		"ClinicalRecord": buildRecordSchema(),
		"Prediction":     buildPredictionSchema(),
		"ModelInfo":      buildModelInfoSchema(),
		"FieldSchema":    buildFieldSchema(),
		"Health":         buildHealthSchema(),
		"Error": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string"},
			},
			"required": []string{"message"},
		},
	}
}

// buildRecordSchema mirrors the server-side checks of every clinical field.
func buildRecordSchema() map[string]interface{} {
	props := make(map[string]interface{})
	for _, f := range ckd.Schema() {
		props[f.Name] = fieldProperty(f)
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             ckd.FieldNames(),
		"additionalProperties": false,
	}
}

func fieldProperty(f ckd.Field) map[string]interface{} {
	p := map[string]interface{}{"description": f.Label}
	switch f.Kind {
	case ckd.KindInteger:
		p["type"] = "integer"
		p["minimum"] = f.Min
		p["maximum"] = f.Max
	case ckd.KindFloat:
		p["type"] = "number"
		p["minimum"] = f.Min
		p["maximum"] = f.Max
	case ckd.KindChoice:
		enum := make([]float64, 0, len(f.Options))
		for _, o := range f.Options {
			if v, err := strconv.ParseFloat(o, 64); err == nil {
				enum = append(enum, v)
			}
		}
		p["type"] = "number"
		p["enum"] = enum
	case ckd.KindCategory:
		p["type"] = "string"
		p["enum"] = f.Options
	}
	if def, ok := defaultValue(f); ok {
		p["default"] = def
	}
	return p
}

func defaultValue(f ckd.Field) (interface{}, bool) {
	if f.Kind == ckd.KindCategory {
		return f.Default, f.Default != ""
	}
	v, err := strconv.ParseFloat(f.Default, 64)
	return v, err == nil
}

func buildPredictionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":            map[string]interface{}{"type": "string", "format": "uuid"},
			"probability":   map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
			"label":         map[string]interface{}{"type": "string", "enum": []string{string(ckd.LabelLikely), string(ckd.LabelUnlikely)}},
			"threshold":     map[string]interface{}{"type": "number"},
			"model":         map[string]interface{}{"type": "string"},
			"model_version": map[string]interface{}{"type": "string"},
			"scored_at":     map[string]interface{}{"type": "string", "format": "date-time"},
		},
		"required": []string{"id", "probability", "label", "threshold", "model", "scored_at"},
	}
}

func buildModelInfoSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":           map[string]interface{}{"type": "string"},
			"version":        map[string]interface{}{"type": "string"},
			"kind":           map[string]interface{}{"type": "string", "enum": []string{"random_forest", "logistic_regression"}},
			"classes":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"positive_class": map[string]interface{}{"type": "string"},
			"features":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"estimators":     map[string]interface{}{"type": "integer"},
			"metrics": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": map[string]interface{}{"type": "number"},
			},
		},
	}
}

func buildFieldSchema() map[string]interface{} {
	field := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":    map[string]interface{}{"type": "string"},
			"label":   map[string]interface{}{"type": "string"},
			"kind":    map[string]interface{}{"type": "string", "enum": []string{string(ckd.KindInteger), string(ckd.KindFloat), string(ckd.KindChoice), string(ckd.KindCategory)}},
			"min":     map[string]interface{}{"type": "number"},
			"max":     map[string]interface{}{"type": "number"},
			"step":    map[string]interface{}{"type": "number"},
			"options": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"default": map[string]interface{}{"type": "string"},
		},
		"required": []string{"name", "label", "kind", "default"},
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"fields":    map[string]interface{}{"type": "array", "items": field},
			"threshold": map[string]interface{}{"type": "number"},
		},
	}
}

func buildHealthSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"status":       map[string]interface{}{"type": "string"},
			"version":      map[string]interface{}{"type": "string"},
			"model_loaded": map[string]interface{}{"type": "boolean"},
		},
	}
}

// RegisterRoutes registers the OpenAPI endpoint.
func (g *Generator) RegisterRoutes(apiGroup *echo.Group) {
	spec := g.GenerateSpec()
	apiGroup.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, spec)
	})
}
