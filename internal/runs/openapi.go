package runs

import "github.com/JaimeStill/leafscan/pkg/openapi"

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"TrainingRun": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"artifact_key": {Type: "string"},
				"model_id":     {Type: "string", Format: "uuid"},
				"classifier":   {Type: "string"},
				"samples":      {Type: "integer"},
				"accuracy":     {Type: "number", Format: "double"},
				"duration_ms":  {Type: "integer", Format: "int64"},
				"created_at":   {Type: "string", Format: "date-time"},
				"classes": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"class":   {Type: "string"},
							"samples": {Type: "integer"},
						},
					},
				},
			},
		},
		"TrainingRunPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("TrainingRun")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}

// Paths describes the training run endpoints relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/runs": {
			Get: &openapi.Operation{
				Summary: "List training runs",
				Tags:    []string{"Training Runs"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("search", "string", "Matches artifact key, classifier or model id", false),
					openapi.QueryParam("sort", "string", "Comma-separated fields, - prefix for descending", false),
					openapi.QueryParam("classifier", "string", "Exact classifier kind", false),
					openapi.QueryParam("artifact_key", "string", "Exact artifact key", false),
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of training runs", "TrainingRunPage"),
				},
			},
		},
		"/runs/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a training run",
				Tags:       []string{"Training Runs"},
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Training run ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Training run with class counts", "TrainingRun"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
	}
}
