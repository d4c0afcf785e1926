package params

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql"
)

// Store holds the live parameters and serves them over a graphql schema.
type Store struct {
	mu          sync.Mutex
	params      Parameters
	subscribers []func(Parameters)
	schema      graphql.Schema
}

// NewStore validates p and builds the schema.
func NewStore(p Parameters) (*Store, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Store{params: p}
	if err := s.initGraphql(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a copy of the current parameters.
func (s *Store) Get() Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Set validates and stores p, then calls every subscriber with it.
func (s *Store) Set(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.params = p
	subs := append([]func(Parameters){}, s.subscribers...)
	s.mu.Unlock()

	glog.V(1).Infof("params: updated to %+v", p)
	for _, fn := range subs {
		fn(p)
	}
	return nil
}

// OnChange registers fn to be called after every successful Set.
func (s *Store) OnChange(fn func(Parameters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Query runs a graphql request against the schema.
func (s *Store) Query(query string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  query,
		VariableValues: vars,
	})
}

func (s *Store) initGraphql() error {
	paramType, paramMut := NewGraphqlType("Params", reflect.TypeOf(Parameters{}), s.update)

	rootQuery := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "RootQuery",
			Fields: graphql.Fields{
				"params": &graphql.Field{
					Type: paramType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						params := s.Get()
						return &params, nil
					},
				},
			},
		},
	)
	rootMut := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "RootMut",
			Fields: graphql.Fields{
				"params": paramMut,
			},
		},
	)
	schema, err := graphql.NewSchema(
		graphql.SchemaConfig{
			Query:    rootQuery,
			Mutation: rootMut,
		},
	)
	if err != nil {
		return err
	}
	s.schema = schema
	return nil
}

// update applies mutation arguments to a copy of the current parameters.
func (s *Store) update(args map[string]interface{}) (interface{}, error) {
	p := s.Get()
	if err := setFields(reflect.ValueOf(&p).Elem(), args); err != nil {
		return nil, err
	}
	if err := s.Set(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// NewGraphqlType builds an object type and a mutation field from the json
// tags of the struct type typ. The mutation passes its input to apply.
func NewGraphqlType(name string, typ reflect.Type, apply func(map[string]interface{}) (interface{}, error)) (*graphql.Object, *graphql.Field) {
	fields := graphql.Fields{}
	inputFields := graphql.InputObjectConfigFieldMap{}

	tagMap := newJSONTagFieldMap(typ)

	resolver := func(field int) func(graphql.ResolveParams) (interface{}, error) {
		return func(p graphql.ResolveParams) (interface{}, error) {
			v := reflect.Indirect(reflect.ValueOf(p.Source))
			if v.Kind() != reflect.Struct || v.Type() != typ {
				return nil, fmt.Errorf("unexpected source %#v", p.Source)
			}
			return v.Field(field).Interface(), nil
		}
	}

	for tag, i := range tagMap {
		f := typ.Field(i)
		var gtyp graphql.Type
		switch f.Type.Kind() {
		case reflect.Bool:
			gtyp = graphql.Boolean
		case reflect.Float32, reflect.Float64:
			gtyp = graphql.Float
		case reflect.String:
			gtyp = graphql.String
		case reflect.Int, reflect.Int8, reflect.Int32, reflect.Int64:
			gtyp = graphql.Int
		default:
			panic(fmt.Sprint("unsupported type ", f.Type))
		}
		fields[tag] = &graphql.Field{Type: gtyp, Resolve: resolver(i)}
		inputFields[tag] = &graphql.InputObjectFieldConfig{Type: gtyp}
	}

	paramType := graphql.NewObject(
		graphql.ObjectConfig{
			Name:   name,
			Fields: fields,
		})
	inputParamType := graphql.NewInputObject(
		graphql.InputObjectConfig{
			Name:   "input" + name,
			Fields: inputFields,
		})
	paramMut := &graphql.Field{
		Type: paramType,
		Args: graphql.FieldConfigArgument{
			"params": &graphql.ArgumentConfig{Type: graphql.NewNonNull(inputParamType)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			args, ok := p.Args["params"].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("missing arg: params")
			}
			return apply(args)
		},
	}

	return paramType, paramMut
}

// setFields sets the fields of the struct elem named by json tag.
func setFields(elem reflect.Value, args map[string]interface{}) error {
	tagMap := newJSONTagFieldMap(elem.Type())
	for arg, val := range args {
		i, ok := tagMap[arg]
		if !ok {
			return fmt.Errorf("unknown field %q", arg)
		}
		field := elem.Field(i)
		v := reflect.ValueOf(val)
		if !v.IsValid() {
			continue
		}
		if !v.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("field %q: cannot use %T as %s", arg, val, field.Type())
		}
		field.Set(v.Convert(field.Type()))
	}
	return nil
}

func jsonTag(f *reflect.StructField) string {
	t := f.Tag.Get("json")
	return strings.Split(t, ",")[0]
}

func newJSONTagFieldMap(typ reflect.Type) map[string]int {
	m := make(map[string]int)
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if tag := jsonTag(&f); tag != "" && tag != "-" {
			m[tag] = i
		}
	}
	return m
}
