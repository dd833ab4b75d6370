package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedClient) Complete(_ context.Context, _, _ string) (string, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", errors.New("no more scripted responses")
}

type blockingClient struct{ calls int }

func (c *blockingClient) Complete(ctx context.Context, _, _ string) (string, error) {
	c.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

var testSchema = MustSchema("test.json", `{
	"type": "object",
	"required": ["name", "count"],
	"properties": {
		"name": {"type": "string"},
		"count": {"type": "number"}
	}
}`)

type testResult struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

func fallbackResult() testResult {
	return testResult{Name: "fallback", Count: -1}
}

func TestCall_OfflineModeUsesFallbackImmediately(t *testing.T) {
	e := NewEngine(nil)
	got := Call(context.Background(), e, Request{Stage: "classify", Schema: testSchema}, fallbackResult)
	assert.Equal(t, "fallback", got.Name)
}

func TestCall_ValidResponseFirstAttempt(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"name":"ok","count":3}`}}
	e := NewEngine(client)

	got := Call(context.Background(), e, Request{Stage: "classify", Schema: testSchema}, fallbackResult)
	assert.Equal(t, testResult{Name: "ok", Count: 3}, got)
	assert.Equal(t, 1, client.calls)
}

func TestCall_RepairsFencedResponseWithTrailingComma(t *testing.T) {
	client := &scriptedClient{responses: []string{"```json\n{\"name\":\"ok\",\"count\":1,}\n```"}}
	e := NewEngine(client)

	got := Call(context.Background(), e, Request{Stage: "coverage", Schema: testSchema}, fallbackResult)
	assert.Equal(t, "ok", got.Name)
}

func TestCall_RetriesThenSucceeds(t *testing.T) {
	client := &scriptedClient{
		errs:      []error{errors.New("transport blip"), nil},
		responses: []string{"", `{"name":"second","count":2}`},
	}
	e := NewEngine(client, WithMaxRetries(2))

	got := Call(context.Background(), e, Request{Stage: "evidence", Schema: testSchema}, fallbackResult)
	assert.Equal(t, "second", got.Name)
	assert.Equal(t, 2, client.calls)
}

func TestCall_SchemaRejectionExhaustsToFallback(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"name":"missing count"}`,
		`{"name":"still missing"}`,
		`{"name":"again"}`,
	}}
	e := NewEngine(client, WithMaxRetries(2))

	var fallbackCalls int
	got := Call(context.Background(), e, Request{Stage: "critic", Schema: testSchema}, func() testResult {
		fallbackCalls++
		return fallbackResult()
	})
	assert.Equal(t, "fallback", got.Name)
	assert.Equal(t, 3, client.calls, "maxRetries+1 attempts")
	assert.Equal(t, 1, fallbackCalls, "fallback invoked exactly once")
}

func TestCall_TimeoutNeverThrows(t *testing.T) {
	client := &blockingClient{}
	e := NewEngine(client, WithTimeout(5*time.Millisecond), WithMaxRetries(2))

	var fallbackCalls int
	got := Call(context.Background(), e, Request{Stage: "scenarios", Schema: testSchema}, func() testResult {
		fallbackCalls++
		return fallbackResult()
	})
	assert.Equal(t, "fallback", got.Name)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, 1, fallbackCalls)
}

func TestBoundedJSON_Truncates(t *testing.T) {
	big := make([]string, 4000)
	for i := range big {
		big[i] = "0123456789"
	}
	out := boundedJSON(map[string]any{"rows": big})
	assert.LessOrEqual(t, len(out), maxInputChars)
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"clean", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose wrapped", `Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"trailing comma object", `{"a":1,}`, `{"a":1}`},
		{"trailing comma array", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"comma inside string kept", `{"a":"x,y,",}`, `{"a":"x,y,"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RepairJSON(tc.in))
		})
	}
}

func TestMustSchema_PanicsOnBadDefinition(t *testing.T) {
	require.Panics(t, func() {
		MustSchema("bad.json", `{"type": ["not a real`)
	})
}
