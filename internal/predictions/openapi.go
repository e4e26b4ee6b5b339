package predictions

import "github.com/JaimeStill/leafscan/pkg/openapi"

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Prediction": {
			Type:     "object",
			Required: []string{"ok", "label", "scores", "model_id"},
			Properties: map[string]*openapi.Schema{
				"ok":    {Type: "boolean", Example: true},
				"label": {Type: "string", Example: "Healthy"},
				"scores": {
					Type:                 "object",
					Description:          "Class probabilities ordered by descending probability",
					AdditionalProperties: &openapi.Schema{Type: "number", Format: "double"},
				},
				"model_id": {Type: "string", Format: "uuid"},
			},
		},
		"ModelStatus": {
			Type:     "object",
			Required: []string{"ok", "service", "model_loaded", "artifact_key", "artifact_present"},
			Properties: map[string]*openapi.Schema{
				"ok":           {Type: "boolean"},
				"service":      {Type: "string", Example: ServiceName},
				"model_loaded": {Type: "boolean"},
				"model_id":     {Type: "string", Format: "uuid"},
				"classifier":   {Type: "string", Enum: []any{"logistic", "linear_svm"}},
				"classes":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"created_at":   {Type: "string", Format: "date-time"},
				"artifact_key": {Type: "string"},
				"artifact_present": {
					Type:        "boolean",
					Description: "Whether an artifact is stored under artifact_key",
				},
			},
		},
	}
}

// Paths describes the prediction endpoints relative to the API base path.
// secureAdmin marks the reload and delete operations as bearer protected.
func Paths(secureAdmin bool) map[string]*openapi.PathItem {
	reload := &openapi.Operation{
		Summary:     "Reload the model artifact",
		Description: "Re-reads the configured artifact. An absent artifact keeps the current model.",
		Tags:        []string{"Model"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Model status after reload", "ModelStatus"),
		},
	}
	remove := &openapi.Operation{
		Summary:     "Delete the model artifact",
		Description: "Removes the configured artifact and stops serving predictions until a new artifact is reloaded.",
		Tags:        []string{"Model"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Model status after deletion", "ModelStatus"),
			404: openapi.ResponseRef("NotFound"),
		},
	}
	if secureAdmin {
		for _, op := range []*openapi.Operation{reload, remove} {
			op.Secured(openapi.BearerAuth)
			op.Responses[401] = openapi.ResponseRef("Unauthorized")
		}
	}

	return map[string]*openapi.PathItem{
		"/predict-image": {
			Post: &openapi.Operation{
				Summary:     "Classify a leaf image",
				Tags:        []string{"Predictions"},
				RequestBody: openapi.RequestBodyFile(formField, "JPEG, PNG, GIF, BMP, TIFF or WebP image"),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Predicted label and class scores", "Prediction"),
					400: openapi.ResponseRef("BadRequest"),
					413: openapi.ResponseRef("PayloadTooLarge"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/model": {
			Get: &openapi.Operation{
				Summary: "Describe the served model",
				Tags:    []string{"Model"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Model status", "ModelStatus"),
				},
			},
			Delete: remove,
		},
		"/model/reload": {Post: reload},
	}
}
