// Package envelope defines the uniform result shape returned by every addon action.
package envelope

// Tokens tracks the notional cost of an action.
type Tokens struct {
	StepAmount         int `json:"stepAmount"`
	TotalCurrentAmount int `json:"totalCurrentAmount"`
}

// Output wraps the action payload.
type Output struct {
	Data map[string]any `json:"data"`
}

// Response is the envelope returned by every action.
type Response struct {
	Output  Output `json:"output"`
	Tokens  Tokens `json:"tokens"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Cost returns a Tokens value charging amount for a single step.
func Cost(amount int) Tokens {
	return Tokens{StepAmount: amount, TotalCurrentAmount: amount}
}

// Success builds a 2xx response carrying data and the action's cost.
func Success(code int, cost int, message string, data map[string]any) *Response {
	return &Response{
		Output:  Output{Data: data},
		Tokens:  Cost(cost),
		Message: message,
		Code:    code,
	}
}

// Failure builds an error response with zeroed tokens. The message is
// copied into data["error"] unless data already carries one.
func Failure(code int, message string, data map[string]any) *Response {
	return failure(code, Tokens{}, message, data)
}

// Rejection builds an error response raised before any I/O took place.
// Such responses still carry the action's cost.
func Rejection(code int, cost int, message string) *Response {
	return failure(code, Cost(cost), message, nil)
}

func failure(code int, tokens Tokens, message string, data map[string]any) *Response {
	if data == nil {
		data = make(map[string]any, 1)
	}
	if _, ok := data["error"]; !ok {
		data["error"] = message
	}
	return &Response{
		Output:  Output{Data: data},
		Tokens:  tokens,
		Message: message,
		Code:    code,
	}
}

// IsSuccess reports whether Code is in [200, 300).
func (r *Response) IsSuccess() bool {
	return r != nil && r.Code >= 200 && r.Code < 300
}

// Error returns the error string from the payload, or "" for successes.
func (r *Response) Error() string {
	if r == nil || r.Output.Data == nil {
		return ""
	}
	s, _ := r.Output.Data["error"].(string)
	return s
}
