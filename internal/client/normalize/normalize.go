// Package normalize turns heterogeneous remote payloads into canonical models.
//
// Remote services do not agree on envelopes or key casing. A cart body may be
// a bare array of lines, an array under "data", "items" or "lines", a single
// wrapped object, or one line-shaped object. Keys are matched after case
// folding with '_' and '-' removed, so "item_id", "itemId" and "ITEM-ID" are
// the same key.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/iudanet/cartkeeper/internal/models"
)

// ErrMalformed тело ответа не удалось разобрать ни в один известный вариант
var ErrMalformed = errors.New("malformed payload")

// Синонимы ключей (после foldKey)
var (
	itemIDKeys   = []string{"itemid", "recordid", "productid", "sku", "id"}
	quantityKeys = []string{"qty", "quantity", "count", "amount"}
	priceKeys    = []string{"unitprice", "price", "cost"}
	titleKeys    = []string{"title", "name"}
	imageKeys    = []string{"imageref", "imageurl", "image", "img", "cover"}
	stockKeys    = []string{"newstock", "cachedstock", "stock", "available", "instock"}
	enabledKeys  = []string{"enabled", "cartenabled", "isenabled"}
	nestedKeys   = []string{"item", "record", "product"}
	listKeys     = []string{"data", "items", "lines", "cart"}
)

// CartPayload нормализованный ответ GET cart
type CartPayload struct {
	Lines []models.CartLine
	Flag  models.CartFlag
}

// MutationResult нормализованный ответ add/remove
type MutationResult struct {
	Quantity   *int // количество по мнению сервера, если он его вернул
	NewStock   int
	StockKnown bool // ответ содержал остаток
}

// envelope варианты верхнего уровня тела ответа
type envelope int

const (
	envArray  envelope = iota // [ ... ]
	envList                   // {"data"|"items"|"lines": [ ... ]}
	envObject                 // {"data": { ... }}
	envLine                   // { "itemId": ..., "qty": ... }
	envFlagOnly               // {"enabled": ...} без строк
)

type object map[string]any

// Cart parses a remote cart body.
func Cart(body []byte) (CartPayload, error) {
	v, err := decode(body)
	if err != nil {
		return CartPayload{}, err
	}
	return cartFrom(v, 0)
}

func cartFrom(v any, depth int) (CartPayload, error) {
	if depth > 3 {
		return CartPayload{}, fmt.Errorf("%w: nesting too deep", ErrMalformed)
	}

	kind, obj, inner, err := classify(v)
	if err != nil {
		return CartPayload{}, err
	}

	out := CartPayload{Flag: models.FlagUnknown}
	if obj != nil {
		out.Flag = flagFrom(obj)
	}

	switch kind {
	case envArray, envList:
		lines, err := linesFrom(inner.([]any))
		if err != nil {
			return CartPayload{}, err
		}
		out.Lines = lines
	case envObject:
		nested, err := cartFrom(inner, depth+1)
		if err != nil {
			return CartPayload{}, err
		}
		if out.Flag == models.FlagUnknown {
			out.Flag = nested.Flag
		}
		out.Lines = nested.Lines
	case envLine:
		line, err := lineFrom(obj)
		if err != nil {
			return CartPayload{}, err
		}
		out.Lines = []models.CartLine{line}
	case envFlagOnly:
		out.Lines = []models.CartLine{}
	}
	return out, nil
}

// Mutation parses an add/remove response. Stock and quantity are optional:
// an empty body or a body without stock gives StockKnown=false.
func Mutation(body []byte) (MutationResult, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return MutationResult{}, nil
	}
	v, err := decode(body)
	if err != nil {
		return MutationResult{}, err
	}

	obj, ok := asObject(v)
	if !ok {
		return MutationResult{}, fmt.Errorf("%w: mutation response is not an object", ErrMalformed)
	}
	if inner, ok := asObject(obj.get(listKeys...)); ok {
		obj = inner
	}

	var res MutationResult
	stock, found, err := intField(obj, stockKeys...)
	if err != nil {
		return MutationResult{}, err
	}
	if found {
		res.NewStock = max(stock, 0)
		res.StockKnown = true
	}

	qty, found, err := intField(obj, quantityKeys...)
	if err != nil {
		return MutationResult{}, err
	}
	if found {
		q := max(qty, 0)
		res.Quantity = &q
	}
	return res, nil
}

// Flag parses an "enabled" answer. Anything that is not an explicit
// true/false yields FlagUnknown.
func Flag(body []byte) models.CartFlag {
	v, err := decode(body)
	if err != nil {
		return models.FlagUnknown
	}
	if f, ok := boolFrom(v); ok {
		return models.FlagFromBool(f)
	}
	obj, ok := asObject(v)
	if !ok {
		return models.FlagUnknown
	}
	if f := flagFrom(obj); f != models.FlagUnknown {
		return f
	}
	if inner, ok := asObject(obj.get(listKeys...)); ok {
		return flagFrom(inner)
	}
	return models.FlagUnknown
}

// Item parses a catalog item body.
func Item(body []byte) (models.Item, error) {
	v, err := decode(body)
	if err != nil {
		return models.Item{}, err
	}
	obj, ok := asObject(v)
	if !ok {
		return models.Item{}, fmt.Errorf("%w: item is not an object", ErrMalformed)
	}
	if inner, ok := asObject(obj.get(listKeys...)); ok {
		obj = inner
	}
	if inner, ok := asObject(obj.get(nestedKeys...)); ok {
		obj = inner
	}

	id, ok := stringField(obj, itemIDKeys...)
	if !ok || id == "" {
		return models.Item{}, fmt.Errorf("%w: item has no id", ErrMalformed)
	}
	item := models.Item{ID: id}
	item.Title, _ = stringField(obj, titleKeys...)
	item.ImageRef, _ = stringField(obj, imageKeys...)
	if item.UnitPrice, _, err = priceField(obj); err != nil {
		return models.Item{}, err
	}
	stock, _, err := intField(obj, stockKeys...)
	if err != nil {
		return models.Item{}, err
	}
	item.Stock = max(stock, 0)
	return item, nil
}

func decode(body []byte) (any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return fold(v), nil
}

// fold рекурсивно нормализует ключи объектов
func fold(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(object, len(t))
		for k, val := range t {
			out[foldKey(k)] = fold(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = fold(t[i])
		}
		return t
	default:
		return v
	}
}

func foldKey(k string) string {
	k = cases.Fold().String(strings.TrimSpace(k))
	return strings.NewReplacer("_", "", "-", "").Replace(k)
}

func classify(v any) (kind envelope, obj object, inner any, err error) {
	if arr, ok := v.([]any); ok {
		return envArray, nil, arr, nil
	}
	obj, ok := asObject(v)
	if !ok {
		return 0, nil, nil, fmt.Errorf("%w: unexpected %T at top level", ErrMalformed, v)
	}

	for _, k := range listKeys {
		switch t := obj[k].(type) {
		case []any:
			return envList, obj, t, nil
		case object:
			return envObject, obj, t, nil
		}
	}
	// флаг проверяется раньше id: у ответа-флага может быть id корзины
	if obj.get(enabledKeys...) != nil || len(obj) == 0 {
		return envFlagOnly, obj, nil, nil
	}
	if _, ok := stringField(obj, itemIDKeys...); ok {
		return envLine, obj, nil, nil
	}
	if _, ok := asObject(obj.get(nestedKeys...)); ok {
		return envLine, obj, nil, nil
	}
	return 0, nil, nil, fmt.Errorf("%w: unrecognized cart envelope", ErrMalformed)
}

func linesFrom(list []any) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0, len(list))
	for i, raw := range list {
		obj, ok := asObject(raw)
		if !ok {
			return nil, fmt.Errorf("%w: line %d is %T", ErrMalformed, i, raw)
		}
		line, err := lineFrom(obj)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		if line.Quantity <= 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// lineFrom читает строку; метаданные товара могут лежать во вложенном объекте
// ("item", "record", "product"), поля самой строки приоритетнее.
func lineFrom(obj object) (models.CartLine, error) {
	nested, _ := asObject(obj.get(nestedKeys...))
	sources := []object{obj}
	if nested != nil {
		sources = append(sources, nested)
	}

	var line models.CartLine
	for _, src := range sources {
		if line.ItemID == "" {
			line.ItemID, _ = stringField(src, itemIDKeys...)
		}
		if line.Title == "" {
			line.Title, _ = stringField(src, titleKeys...)
		}
		if line.ImageRef == "" {
			line.ImageRef, _ = stringField(src, imageKeys...)
		}
		if line.UnitPrice.IsZero() {
			price, _, err := priceField(src)
			if err != nil {
				return models.CartLine{}, err
			}
			line.UnitPrice = price
		}
		if line.CachedStock == 0 {
			stock, _, err := intField(src, stockKeys...)
			if err != nil {
				return models.CartLine{}, err
			}
			line.CachedStock = max(stock, 0)
		}
	}
	if line.ItemID == "" {
		return models.CartLine{}, fmt.Errorf("%w: line has no item id", ErrMalformed)
	}

	qty, found, err := intField(obj, quantityKeys...)
	if err != nil {
		return models.CartLine{}, err
	}
	if !found {
		// строка корзины без количества означает одну единицу
		qty = 1
	}
	line.Quantity = qty
	return line, nil
}

func flagFrom(obj object) models.CartFlag {
	if b, ok := boolFrom(obj.get(enabledKeys...)); ok {
		return models.FlagFromBool(b)
	}
	return models.FlagUnknown
}

func boolFrom(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "enabled":
			return true, true
		case "false", "disabled":
			return false, true
		}
	}
	return false, false
}

func asObject(v any) (object, bool) {
	obj, ok := v.(object)
	return obj, ok
}

// get returns the first present value among keys.
func (o object) get(keys ...string) any {
	for _, k := range keys {
		if v, ok := o[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(obj object, keys ...string) (string, bool) {
	switch t := obj.get(keys...).(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func intField(obj object, keys ...string) (int, bool, error) {
	raw := obj.get(keys...)
	switch t := raw.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true, nil
		}
		f, err := t.Float64()
		if err != nil || f != float64(int64(f)) {
			return 0, false, fmt.Errorf("%w: %q is not an integer", ErrMalformed, t)
		}
		return int(f), true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q is not an integer", ErrMalformed, t)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%w: unexpected %T for integer field", ErrMalformed, raw)
	}
}

func priceField(obj object) (decimal.Decimal, bool, error) {
	raw := obj.get(priceKeys...)
	var s string
	switch t := raw.(type) {
	case nil:
		return decimal.Zero, false, nil
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return decimal.Zero, false, fmt.Errorf("%w: unexpected %T for price", ErrMalformed, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: bad price %q", ErrMalformed, s)
	}
	if d.IsNegative() {
		return decimal.Zero, false, fmt.Errorf("%w: negative price %s", ErrMalformed, d)
	}
	return d, true, nil
}
