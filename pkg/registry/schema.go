// pkg/registry/schema.go
package registry

type OperationRegistry struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Operations  []Operation `json:"operations"`
}

type Operation struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	TaskType     string                 `json:"taskType"`
	HTTPPath     string                 `json:"httpPath"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	Tags         []string               `json:"tags"`
}

var shopBriefSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"name"},
	"properties": map[string]interface{}{
		"name":             map[string]interface{}{"type": "string", "minLength": 1},
		"address":          map[string]interface{}{"type": "string"},
		"rating":           map[string]interface{}{"type": "number", "minimum": 0, "maximum": 5},
		"userRatingsTotal": map[string]interface{}{"type": "integer", "minimum": 0},
	},
}

var shopSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"id", "name", "rating", "userRatingsTotal"},
	"properties": map[string]interface{}{
		"id":               map[string]interface{}{"type": "string", "minLength": 1},
		"name":             map[string]interface{}{"type": "string", "minLength": 1},
		"rating":           map[string]interface{}{"type": "number"},
		"userRatingsTotal": map[string]interface{}{"type": "integer"},
	},
}

func builtinOperations() []Operation {
	return []Operation{
		{
			ID:          "locate",
			DisplayName: "Resolve Location",
			Description: "Resolve a free-text location into coordinates and a formatted address.",
			Category:    "places",
			TaskType:    "resolve-location",
			HTTPPath:    "/location",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []string{"location"},
				"properties": map[string]interface{}{
					"location": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
			ErrorCodes: []string{"INVALID_ARGUMENT", "LOCATION_NOT_FOUND", "PROVIDER_ERROR", "PROVIDER_TIMEOUT", "CONFIGURATION_ERROR"},
			Timeout:    "30s",
			Retries:    3,
			Tags:       []string{"geocoding"},
		},
		{
			ID:          "discover",
			DisplayName: "Find Coffee Shops",
			Description: "Find the eight best-rated coffee shops near a coordinate, ranked into tournament seeds.",
			Category:    "places",
			TaskType:    "find-coffee-shops",
			HTTPPath:    "/coffee-shops",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []string{"lat", "lng"},
				"properties": map[string]interface{}{
					"lat":    map[string]interface{}{"type": "number", "minimum": -90, "maximum": 90},
					"lng":    map[string]interface{}{"type": "number", "minimum": -180, "maximum": 180},
					"radius": map[string]interface{}{"type": "integer", "minimum": 1},
				},
			},
			ErrorCodes: []string{"INVALID_ARGUMENT", "INSUFFICIENT_SHOPS", "PROVIDER_ERROR", "PROVIDER_TIMEOUT", "CONFIGURATION_ERROR"},
			Timeout:    "30s",
			Retries:    3,
			Tags:       []string{"nearby-search", "ranking"},
		},
		{
			ID:          "battle",
			DisplayName: "Battle Coffee Shops",
			Description: "Judge a head-to-head battle between two coffee shops. Always returns a winner.",
			Category:    "judge",
			TaskType:    "battle-coffee-shops",
			HTTPPath:    "/battle",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []string{"shop1", "shop2"},
				"properties": map[string]interface{}{
					"shop1": shopBriefSchema,
					"shop2": shopBriefSchema,
				},
			},
			ErrorCodes: []string{"INVALID_ARGUMENT"},
			Timeout:    "45s",
			Retries:    0,
			Tags:       []string{"llm", "fallback"},
		},
		{
			ID:          "create-tournament",
			DisplayName: "Create Tournament",
			Description: "Seed a fresh 15-slot bracket from exactly eight coffee shops.",
			Category:    "bracket",
			TaskType:    "create-tournament",
			HTTPPath:    "/tournament",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []string{"shops"},
				"properties": map[string]interface{}{
					"shops": map[string]interface{}{
						"type":     "array",
						"minItems": 8,
						"maxItems": 8,
						"items":    shopSchema,
					},
				},
			},
			ErrorCodes: []string{"INVALID_ARGUMENT", "INVALID_SEEDING"},
			Timeout:    "5s",
			Retries:    0,
			Tags:       []string{"bracket"},
		},
	}
}
