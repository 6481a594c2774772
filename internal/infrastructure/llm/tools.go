package llm

import (
	"github.com/eklundh/tidflow/internal/model"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// GenerateClassifyTripTool builds the classify_trip tool definition with the
// currently allowed project codes injected as an enum, so the model can only
// reference projects that exist.
func GenerateClassifyTripTool(projectCodes []string) openai.Tool {
	properties := map[string]jsonschema.Definition{
		"trip_type": {
			Type:        jsonschema.String,
			Enum:        []string{model.TripTypeBusiness, model.TripTypePrivate},
			Description: "Classification of the trip: tjänst (business) or privat (private).",
		},
		"purpose": {
			Type:        jsonschema.String,
			Description: "Short business purpose of the trip. Empty string for private trips.",
		},
		"customer": {
			Type:        jsonschema.String,
			Description: "Customer visited, if one can be inferred. Empty string otherwise.",
		},
	}

	projectDesc := "Project code the trip belongs to, must match the allowed list exactly. Empty string when none fits."
	if len(projectCodes) > 0 {
		properties["project_code"] = jsonschema.Definition{
			Type:        jsonschema.String,
			Enum:        append(projectCodes, ""),
			Description: projectDesc,
		}
	} else {
		properties["project_code"] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: projectDesc,
		}
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "classify_trip",
			Description: "Classify one driving journal trip as business or private and attach purpose, project and customer.",
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: properties,
				Required:   []string{"trip_type", "purpose", "project_code", "customer"},
			},
		},
	}
}
