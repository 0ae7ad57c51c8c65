package remote

import (
	"encoding/json"
	"fmt"

	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/tidwall/gjson"
)

// Shape tells which layout a list response arrived in.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeBareList
	ShapeEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeBareList:
		return "bare-list"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// ListResponse is a decoded list in one of the layouts the service is known to use.
// Key is the envelope field the list was found under. Reason explains an unknown shape.
type ListResponse[T any] struct {
	Shape  Shape
	Key    string
	Reason string
	Items  []T
}

// envelopeKeys are checked in order after the kind specific key ("cameras", ...).
//
//nolint:gochecknoglobals // read-only lookup table
var envelopeKeys = []string{"items", "data", "results", "content", "data.items"}

// DecodeList decodes a list body. It never fails: anything it cannot place is
// reported as ShapeUnknown with no items.
func DecodeList[T any](body []byte, kind models.Kind) ListResponse[T] {
	if !gjson.ValidBytes(body) {
		return unknownShape[T]("body is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	switch {
	case root.IsArray():
		return decodeBareList[T](root)
	case root.IsObject():
		return decodeEnvelope[T](root, kind)
	default:
		return unknownShape[T](fmt.Sprintf("unexpected top-level JSON %s", root.Type))
	}
}

func decodeBareList[T any](root gjson.Result) ListResponse[T] {
	items, err := unmarshalItems[T](root.Raw)
	if err != nil {
		return unknownShape[T](err.Error())
	}

	return ListResponse[T]{Shape: ShapeBareList, Items: items}
}

func decodeEnvelope[T any](root gjson.Result, kind models.Kind) ListResponse[T] {
	keys := append([]string{string(kind)}, envelopeKeys...)
	for _, key := range keys {
		field := root.Get(key)
		if !field.IsArray() {
			continue
		}

		items, err := unmarshalItems[T](field.Raw)
		if err != nil {
			return unknownShape[T](fmt.Sprintf("envelope key %q: %v", key, err))
		}

		return ListResponse[T]{Shape: ShapeEnvelope, Key: key, Items: items}
	}

	return unknownShape[T]("no list found under any known envelope key")
}

func unknownShape[T any](reason string) ListResponse[T] {
	return ListResponse[T]{Shape: ShapeUnknown, Reason: reason, Items: []T{}}
}

func unmarshalItems[T any](raw string) ([]T, error) {
	items := []T{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list items: %w", err)
	}

	return items, nil
}

// echoKeys are the envelope fields a single echoed item may sit under.
//
//nolint:gochecknoglobals // read-only lookup table
var echoKeys = []string{"data", "item", "result"}

// decodeEcho decodes an item echoed back by a write. It returns nil when the
// body is empty or carries nothing with an id.
func decodeEcho[T models.Listing](body []byte) *T {
	if !gjson.ValidBytes(body) {
		return nil
	}

	root := gjson.ParseBytes(body)
	candidates := []gjson.Result{root}
	for _, key := range echoKeys {
		candidates = append(candidates, root.Get(key))
	}

	for _, candidate := range candidates {
		if !candidate.IsObject() || candidate.Get("id").String() == "" {
			continue
		}

		var item T
		if err := json.Unmarshal([]byte(candidate.Raw), &item); err != nil {
			return nil
		}
		if item.Common().ID == "" {
			return nil
		}
		return &item
	}

	return nil
}
