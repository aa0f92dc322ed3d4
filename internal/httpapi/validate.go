package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lavrik91/test-task-1/internal/application/service"
	"github.com/lavrik91/test-task-1/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

var minAmount = decimal.RequireFromString("0.01")

// fieldError mirrors one entry of the "detail" list returned with 422.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type mediaTypeError struct{}

func (e *mediaTypeError) Error() string {
	return "Content-Type must be application/json"
}

type createOrderRequest struct {
	Name          *string          `json:"name"`
	Weight        *decimal.Decimal `json:"weight"`
	Cost          *decimal.Decimal `json:"cost"`
	OrderTypeName *string          `json:"order_type_name"`
}

func decodeCreateOrder(r *http.Request) (service.OrderRequest, []fieldError, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return service.OrderRequest{}, nil, &mediaTypeError{}
	}

	var body createOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		return service.OrderRequest{}, nil, err
	}

	var problems []fieldError
	req := service.OrderRequest{OrderTypeName: domain.OrderTypeClothing}

	switch {
	case body.Name == nil:
		problems = append(problems, missing("name"))
	case len(*body.Name) < 1:
		problems = append(problems, fieldError{Loc: bodyLoc("name"), Msg: "String should have at least 1 character", Type: "string_too_short"})
	default:
		req.Name = *body.Name
	}

	for _, f := range []struct {
		name string
		v    *decimal.Decimal
		max  decimal.Decimal
		dst  *decimal.Decimal
	}{
		{name: "weight", v: body.Weight, max: domain.MaxWeight, dst: &req.Weight},
		{name: "cost", v: body.Cost, max: domain.MaxCost, dst: &req.Cost},
	} {
		if fe, ok := checkAmount(f.name, f.v, f.max); !ok {
			problems = append(problems, fe)
			continue
		}
		*f.dst = *f.v
	}

	if body.OrderTypeName != nil {
		t := domain.OrderType(*body.OrderTypeName)
		if !t.Valid() {
			problems = append(problems, fieldError{Loc: bodyLoc("order_type_name"), Msg: orderTypeMsg(), Type: "enum"})
		} else {
			req.OrderTypeName = t
		}
	}

	return req, problems, nil
}

func checkAmount(field string, v *decimal.Decimal, max decimal.Decimal) (fieldError, bool) {
	switch {
	case v == nil:
		return missing(field), false
	case !v.GreaterThan(minAmount):
		return fieldError{Loc: bodyLoc(field), Msg: "Input should be greater than 0.01", Type: "greater_than"}, false
	case !v.LessThan(max):
		return fieldError{Loc: bodyLoc(field), Msg: "Input should be less than " + max.String(), Type: "less_than"}, false
	case !domain.MaxTwoPlaces(*v):
		return fieldError{Loc: bodyLoc(field), Msg: "Decimal input should have no more than 2 decimal places", Type: "decimal_max_places"}, false
	}
	return fieldError{}, true
}

func parseListQuery(q url.Values) (domain.OrderFilter, []fieldError) {
	f := domain.OrderFilter{Page: defaultPage, PageSize: defaultPageSize}
	var problems []fieldError

	if v := q.Get("order_type"); v != "" {
		t := domain.OrderType(v)
		if t.Valid() {
			f.OrderType = &t
		} else {
			problems = append(problems, fieldError{Loc: queryLoc("order_type"), Msg: orderTypeMsg(), Type: "enum"})
		}
	}
	if v := q.Get("delivery_cost"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fieldError{Loc: queryLoc("delivery_cost"), Msg: "Input should be a valid boolean", Type: "bool_parsing"})
		} else {
			f.Priced = &b
		}
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			problems = append(problems, fieldError{Loc: queryLoc("page"), Msg: "Input should be greater than or equal to 1", Type: "greater_than_equal"})
		} else {
			f.Page = n
		}
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil || n < 1:
			problems = append(problems, fieldError{Loc: queryLoc("page_size"), Msg: "Input should be greater than or equal to 1", Type: "greater_than_equal"})
		case n > maxPageSize:
			problems = append(problems, fieldError{Loc: queryLoc("page_size"), Msg: fmt.Sprintf("Input should be less than or equal to %d", maxPageSize), Type: "less_than_equal"})
		default:
			f.PageSize = n
		}
	}
	return f, problems
}

func orderTypeMsg() string {
	quoted := make([]string, len(domain.OrderTypes))
	for i, t := range domain.OrderTypes {
		quoted[i] = "'" + string(t) + "'"
	}
	return "Input should be " + strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func missing(field string) fieldError {
	return fieldError{Loc: bodyLoc(field), Msg: "Field required", Type: "missing"}
}

func bodyLoc(field string) []string  { return []string{"body", field} }
func queryLoc(field string) []string { return []string{"query", field} }
