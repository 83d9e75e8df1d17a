package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to the exploration service.
// Field names follow the JSON tags of the domain types, which graphql-go
// resolves by default.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	revealType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Reveal",
		Fields: graphql.Fields{
			"point":         &graphql.Field{Type: geoPointType},
			"radius_meters": &graphql.Field{Type: graphql.Float},
			"sequence":      &graphql.Field{Type: graphql.Int},
		},
	})

	progressType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Progress",
		Fields: graphql.Fields{
			"level":             &graphql.Field{Type: graphql.Int},
			"title":             &graphql.Field{Type: graphql.String},
			"xp_into_level":     &graphql.Field{Type: graphql.Float},
			"xp_for_next_level": &graphql.Field{Type: graphql.Float},
			"percent":           &graphql.Field{Type: graphql.Float},
			"total_xp":          &graphql.Field{Type: graphql.Float},
		},
	})

	levelUpType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LevelUp",
		Fields: graphql.Fields{
			"level": &graphql.Field{Type: graphql.Int},
			"title": &graphql.Field{Type: graphql.String},
		},
	})

	cutoutType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Cutout",
		Fields: graphql.Fields{
			"x":         &graphql.Field{Type: graphql.Float},
			"y":         &graphql.Field{Type: graphql.Float},
			"radius_px": &graphql.Field{Type: graphql.Float},
		},
	})

	fogMaskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FogMask",
		Fields: graphql.Fields{
			"width_px":  &graphql.Field{Type: graphql.Int},
			"height_px": &graphql.Field{Type: graphql.Int},
			"offset_x":  &graphql.Field{Type: graphql.Float},
			"offset_y":  &graphql.Field{Type: graphql.Float},
			"cutouts":   &graphql.Field{Type: graphql.NewList(cutoutType)},
		},
	})

	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RecordResult",
		Fields: graphql.Fields{
			"accepted":    &graphql.Field{Type: graphql.Boolean},
			"new_area_m2": &graphql.Field{Type: graphql.Float},
			"event":       &graphql.Field{Type: revealType},
		},
	})

	observationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Observation",
		Fields: graphql.Fields{
			"record":    &graphql.Field{Type: recordType},
			"progress":  &graphql.Field{Type: progressType},
			"level_ups": &graphql.Field{Type: graphql.NewList(levelUpType)},
			"persisted": &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"progress": &graphql.Field{
				Type:        progressType,
				Description: "Current level, title and XP",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Exploration.Progression().Progress(), nil
				},
			},
			"reveals": &graphql.Field{
				Type:        graphql.NewList(revealType),
				Description: "Reveal log in insertion order",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset := max(p.Args["offset"].(int), 0)
					limit := p.Args["limit"].(int)
					if limit <= 0 || limit > 1000 {
						limit = 100
					}
					events := deps.Exploration.Reveals().AllPoints()
					if offset >= len(events) {
						return []domain.RevealEvent{}, nil
					}
					return events[offset:min(offset+limit, len(events))], nil
				},
			},
			"fog": &graphql.Field{
				Type:        fogMaskType,
				Description: "Fog mask for a viewport",
				Args: graphql.FieldConfigArgument{
					"centerLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"centerLon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"zoom":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"width":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"height":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vp := domain.Viewport{
						Center:      domain.GeoPoint{Lat: p.Args["centerLat"].(float64), Lon: p.Args["centerLon"].(float64)},
						Zoom:        p.Args["zoom"].(float64),
						PixelWidth:  p.Args["width"].(int),
						PixelHeight: p.Args["height"].(int),
					}
					return deps.Exploration.Render(p.Context, vp)
				},
			},
			"title": &graphql.Field{
				Type:        graphql.String,
				Description: "Display title for a level",
				Args: graphql.FieldConfigArgument{
					"level": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return usecases.Title(p.Args["level"].(int)), nil
				},
			},
			"xpRequired": &graphql.Field{
				Type:        graphql.Float,
				Description: "XP needed to advance from a level to the next",
				Args: graphql.FieldConfigArgument{
					"level": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return usecases.XPRequired(p.Args["level"].(int)), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"observe": &graphql.Field{
				Type:        observationType,
				Description: "Feed one coordinate sample",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					obs, err := deps.Exploration.Observe(p.Context, pt)
					if err != nil && !errors.Is(err, domain.ErrPersistence) {
						return nil, err
					}
					return obs, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
