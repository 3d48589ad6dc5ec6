package graph

import (
	"encoding/base64"

	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/graphql-go/graphql"
)

// fileInputType carries an uploaded file inline in the request: a filename
// plus base64-encoded bytes. The bytes are handed to the media store as-is.
var fileInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "FileInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name": &graphql.InputObjectFieldConfig{
			Type: graphql.NewNonNull(graphql.String),
		},
		"content": &graphql.InputObjectFieldConfig{
			Type:        graphql.NewNonNull(graphql.String),
			Description: "Base64-encoded file bytes.",
		},
	},
})

// fileArg decodes an optional FileInput argument. Returns nil when the
// argument is absent.
func fileArg(p graphql.ResolveParams, name string) (*service.FileInput, error) {
	raw, ok := p.Args[name].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	fileName, _ := raw["name"].(string)
	encoded, _ := raw["content"].(string)
	if fileName == "" || encoded == "" {
		return nil, models.NewValidationError("File needs both a name and content")
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, models.NewValidationError("File content must be base64-encoded")
	}
	return &service.FileInput{Name: fileName, Content: content}, nil
}
