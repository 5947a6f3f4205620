package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teemow/driveaddon/internal/envelope"
)

// Result is the outcome of the action for one ID.
type Result struct {
	ID      string `json:"id"`
	Status  string `json:"status"` // "success" or "error"
	Code    int    `json:"code"`
	Message string `json:"message"`
	Tokens  int    `json:"tokens"`
}

// BatchResult aggregates the results of a batch. Tokens sums what each
// envelope charged: successes and pre-I/O rejections carry the action's
// cost, remote failures carry none.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Tokens     int      `json:"tokens"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a parameter that can be either a single string or an array of strings.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// Some clients send arrays as JSON-encoded strings.
		var ids []string
		if strings.HasPrefix(v, "[") && json.Unmarshal([]byte(v), &ids) == nil {
			if len(ids) == 0 {
				return nil, fmt.Errorf("%s cannot be empty", paramName)
			}
			return ids, nil
		}
		result = []string{v}
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

// Process runs fn for each ID in order and collects the envelopes.
// IDs left unprocessed after ctx is cancelled are reported as failed.
func Process(ctx context.Context, ids []string, fn func(ctx context.Context, id string) *envelope.Response) BatchResult {
	br := BatchResult{Results: make([]Result, 0, len(ids))}

	for _, id := range ids {
		var r Result
		if err := ctx.Err(); err != nil {
			r = Result{ID: id, Status: "error", Message: fmt.Sprintf("not processed: %v", err)}
		} else {
			r = newResult(id, fn(ctx, id))
		}

		br.Results = append(br.Results, r)
		br.Total++
		br.Tokens += r.Tokens
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	return br
}

func newResult(id string, resp *envelope.Response) Result {
	r := Result{ID: id, Status: "error"}
	if resp == nil {
		r.Message = "no response"
		return r
	}
	if resp.IsSuccess() {
		r.Status = "success"
	}
	r.Code = resp.Code
	r.Message = resp.Message
	r.Tokens = resp.Tokens.StepAmount
	return r
}

// Format renders br as indented JSON.
func (br BatchResult) Format() string {
	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}
