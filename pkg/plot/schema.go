package plot

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// PayloadSchema describes the accepted payload JSON
func PayloadSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(Percent("")) {
				return &jsonschema.Schema{
					OneOf: []*jsonschema.Schema{{Type: "string"}, {Type: "number"}},
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(&Payload{})
	schema.Title = "chartspec-payload"
	schema.Description = "Trading results of one pair, composed into a chart"

	return schema
}
