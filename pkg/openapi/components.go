package openapi

// BearerAuth names the bearer token security scheme.
const BearerAuth = "bearerAuth"

// NewComponents creates Components with the shared error body, the
// standard error responses and the bearer security scheme.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"ok", "error"},
				Properties: map[string]*Schema{
					"ok":    {Type: "boolean", Example: false},
					"error": {Type: "string", Description: "Error message"},
					"hint":  {Type: "string", Description: "Remediation hint"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"Unauthorized":       errorResponse("Missing or invalid bearer token"),
			"NotFound":           errorResponse("Resource not found"),
			"PayloadTooLarge":    errorResponse("Upload exceeds the size or pixel limit"),
			"ServiceUnavailable": errorResponse("No model loaded"),
		},
		SecuritySchemes: map[string]*SecurityScheme{
			BearerAuth: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		},
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
