package api

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fields is a JSON-object document body. Values are limited to what
// google.protobuf.Value can hold: null, bool, number, string, list, object.
type Fields struct {
	s *structpb.Struct
}

// NewFields converts m. It fails on values structpb cannot represent.
func NewFields(m map[string]any) (*Fields, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return &Fields{s: s}, nil
}

// AsMap returns the fields as a Go map. Numbers come back as float64.
// A nil receiver yields nil.
func (f *Fields) AsMap() map[string]any {
	if f == nil || f.s == nil {
		return nil
	}
	return f.s.AsMap()
}

func (f *Fields) MarshalJSON() ([]byte, error) {
	if f.s == nil {
		return []byte("{}"), nil
	}
	return protojson.Marshal(f.s)
}

func (f *Fields) UnmarshalJSON(b []byte) error {
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return err
	}
	f.s = s
	return nil
}
