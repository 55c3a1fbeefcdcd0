package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// NormalizeExpression undoes shell escaping of "!" (zsh rewrites "!=" to
// "\!=" even inside single quotes).
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// ApplyQuery runs a jq query against v. The value is round-tripped through
// JSON first so typed structs look the same to jq as they do on the wire.
// A query producing one result returns it directly; several results come
// back as a slice.
func ApplyQuery(v any, query string) (any, error) {
	if strings.TrimSpace(query) == "" {
		return v, nil
	}

	parsed, err := gojq.Parse(NormalizeExpression(query))
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}

	data, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := parsed.Run(data)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := out.(error); ok {
			return nil, fmt.Errorf("query error: %w", err)
		}
		results = append(results, out)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// WriteJSONFiltered writes JSON with optional jq filtering.
// Uses pretty-printed output by default; pass compact=true for single-line output.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
