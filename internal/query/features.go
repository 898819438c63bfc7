package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Reserved control keys, extracted before the remainder of the query
// string is treated as field filters.
const (
	paramPage   = "page"
	paramSort   = "sort"
	paramLimit  = "limit"
	paramFields = "fields"
)

// Pagination defaults. Malformed or non-positive values fall back to
// these instead of propagating into the executed query.
const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// versionField is the bookkeeping field excluded from results unless the
// client requests an explicit field set.
const versionField = "__v"

// defaultSortField guarantees deterministic pagination when the client
// does not ask for an ordering.
const defaultSortField = "createdAt"

// comparisonOps maps the query-string operator tokens to the driver's
// operator syntax. Only tokens in this table are ever rewritten; anything
// else inside brackets is dropped so user input can never smuggle a raw
// operator into the filter document.
var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Features decorates an unexecuted find with filter, sort, projection and
// pagination parameters parsed from a request query string. Operations
// are chainable and individually idempotent; none of them touch the
// database. Keys present in the base filter always win over client input.
type Features struct {
	params url.Values
	base   bson.M

	filter     bson.M
	sort       bson.D
	projection bson.D
	skip       int64
	limit      int64
}

// New creates a Features pipeline over the given base filter and raw
// query parameters. The base filter carries store-owned constraints
// (secret-tour exclusion, active-only users) that clients must not be
// able to override.
func New(base bson.M, params url.Values) *Features {
	f := &Features{
		params: params,
		base:   base,
		filter: bson.M{},
	}
	for k, v := range base {
		f.filter[k] = v
	}
	return f
}

// Apply runs the full pipeline in the conventional order.
func (f *Features) Apply() *Features {
	return f.Filter().Sort().LimitFields().Paginate()
}

// Filter builds the filter document from the non-reserved query keys.
// Literal values mean equality; bracketed keys like price[lte]=500 become
// operator expressions. Field names are not validated against the entity
// schema; unknown fields simply match nothing in the store.
func (f *Features) Filter() *Features {
	filter := bson.M{}

	for key := range f.params {
		field, op, hasOp := splitOperatorKey(key)
		if !hasOp {
			field = key
		}
		if reservedKey(field) {
			continue
		}

		value := coerceValue(f.params.Get(key))

		if !hasOp {
			filter[field] = value
			continue
		}

		rewritten, known := comparisonOps[op]
		if !known {
			continue
		}

		expr, ok := filter[field].(bson.M)
		if !ok {
			expr = bson.M{}
			filter[field] = expr
		}
		expr[rewritten] = value
	}

	// Base constraints overwrite whatever the client sent.
	for k, v := range f.base {
		filter[k] = v
	}

	f.filter = filter
	return f
}

// Sort parses the comma-separated sort key into a multi-key ordering,
// primary key first. A leading dash means descending. Without a sort key
// results are ordered by creation time descending so pagination stays
// stable across requests.
func (f *Features) Sort() *Features {
	raw := f.params.Get(paramSort)
	if raw == "" {
		f.sort = bson.D{{Key: defaultSortField, Value: -1}}
		return f
	}

	sort := bson.D{}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		direction := 1
		if strings.HasPrefix(token, "-") {
			direction = -1
			token = token[1:]
		}
		if token == "" {
			continue
		}

		sort = append(sort, bson.E{Key: token, Value: direction})
	}

	if len(sort) == 0 {
		sort = bson.D{{Key: defaultSortField, Value: -1}}
	}

	f.sort = sort
	return f
}

// LimitFields builds the projection. A comma-separated fields key selects
// exactly those fields (the identity field is always included by the
// store). Dash-prefixed names exclude instead; the first token decides
// the mode since the two cannot be mixed. Without a fields key only the
// internal version marker is dropped.
func (f *Features) LimitFields() *Features {
	raw := f.params.Get(paramFields)
	if raw == "" {
		f.projection = bson.D{{Key: versionField, Value: 0}}
		return f
	}

	projection := bson.D{}
	exclude := false
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		isExclusion := strings.HasPrefix(token, "-")
		if isExclusion {
			token = token[1:]
		}
		if token == "" {
			continue
		}

		if len(projection) == 0 {
			exclude = isExclusion
		} else if isExclusion != exclude {
			continue
		}

		value := 1
		if exclude {
			value = 0
		}
		projection = append(projection, bson.E{Key: token, Value: value})
	}

	if len(projection) == 0 {
		projection = bson.D{{Key: versionField, Value: 0}}
	}

	f.projection = projection
	return f
}

// Paginate derives skip and limit from the page and limit keys. Values
// that fail to parse or are non-positive fall back to the defaults; an
// out-of-range page yields an empty result set, not an error.
func (f *Features) Paginate() *Features {
	page := positiveIntOrDefault(f.params.Get(paramPage), DefaultPage)
	limit := positiveIntOrDefault(f.params.Get(paramLimit), DefaultLimit)

	f.skip = mulClamped(int64(page-1), int64(limit))
	f.limit = int64(limit)
	return f
}

// mulClamped multiplies two non-negative int64s, clamping at MaxInt64 on
// overflow so an absurd page number reads as an empty page instead of a
// negative skip the store would reject.
func mulClamped(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// Query returns the assembled filter document.
func (f *Features) Query() bson.M {
	return f.filter
}

// FindOptions returns the assembled sort, projection and pagination as
// driver find options.
func (f *Features) FindOptions() *options.FindOptions {
	opts := options.Find()
	if len(f.sort) > 0 {
		opts.SetSort(f.sort)
	}
	if len(f.projection) > 0 {
		opts.SetProjection(f.projection)
	}
	if f.limit > 0 {
		opts.SetSkip(f.skip)
		opts.SetLimit(f.limit)
	}
	return opts
}

func reservedKey(field string) bool {
	switch field {
	case paramPage, paramSort, paramLimit, paramFields:
		return true
	default:
		return false
	}
}

// splitOperatorKey recognizes keys of the form field[op].
func splitOperatorKey(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") || open+1 >= len(key)-1 {
		return "", "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerceValue turns a query-string literal into the typed value the
// store compares against: numbers and booleans by syntax, everything
// else as a string.
func coerceValue(raw string) interface{} {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}

// positiveIntOrDefault parses a positive integer, falling back to def on
// any malformed, zero or negative input.
func positiveIntOrDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
