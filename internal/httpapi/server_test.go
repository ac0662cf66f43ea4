package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"luna_assistant/internal/catalog"
	"luna_assistant/internal/conversation"
	"luna_assistant/internal/core"
	"luna_assistant/internal/llm"
	"luna_assistant/internal/llm/llmtest"
	"luna_assistant/internal/model"
	"luna_assistant/internal/observability"
	"luna_assistant/internal/preference"
	"luna_assistant/internal/routing"
	"luna_assistant/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, chat, extractor *llmtest.ChatModel, checks ...Check) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	engine, err := conversation.NewEngine(ctx, chat, model.ConversationConfig{MaxMessages: 40}, time.Second)
	require.NoError(t, err)
	ext, err := preference.NewExtractor(ctx, extractor, time.Second)
	require.NoError(t, err)

	metrics := observability.NewMetrics("test_httpapi")
	sessions := session.NewManager(session.NewMemoryRepository(time.Minute))
	metrics.WatchSessions("test_httpapi", sessions.Count)

	router, err := core.NewRouter(ctx, core.Deps{
		Catalog:   catalog.New(),
		Rules:     routing.DefaultRules(),
		Engine:    engine,
		Extractor: ext,
		Sessions:  sessions,
		Metrics:   metrics,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(New(router, metrics, checks...).Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode(t *testing.T, res *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	res := postJSON(t, ts.URL+"/v1/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created createSessionResponse
	decode(t, res, &created)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"))

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/healthz").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/readyz").StatusCode)
}

func TestReadyReportsDelegateDown(t *testing.T) {
	down := llm.CheckFunc(func(context.Context) error { return errors.New("ollama not running") })
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"), Check{Name: "delegate", Checker: down})

	res := do(t, http.MethodGet, ts.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	var body errorResponse
	decode(t, res, &body)
	assert.Equal(t, "delegate_unavailable", body.Code)
}

func TestReadyChecksEveryDependency(t *testing.T) {
	up := llm.CheckFunc(func(context.Context) error { return nil })
	storeDown := llm.CheckFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"),
		Check{Name: "delegate", Checker: up},
		Check{Name: "session_store", Checker: storeDown},
	)

	res := do(t, http.MethodGet, ts.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	var body errorResponse
	decode(t, res, &body)
	assert.Equal(t, "session_store_unavailable", body.Code)
}

func TestCatalog(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"))

	res := do(t, http.MethodGet, ts.URL+"/v1/catalog")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Items []model.Item `json:"items"`
	}
	decode(t, res, &body)
	require.Len(t, body.Items, 10)
	assert.Equal(t, "Banana", body.Items[0].Name)
}

func TestInventoryMessage(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("unused"), llmtest.Reply("{}"))
	id := createSession(t, ts)

	res := postJSON(t, ts.URL+"/v1/sessions/"+id+"/messages", messageRequest{Text: "Do you have bananas?"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var result model.Result
	decode(t, res, &result)
	assert.Equal(t, model.ResultInventoryAnswer, result.Kind)
	require.NotNil(t, result.Inventory)
	assert.Equal(t, model.OutcomeExact, result.Inventory.Outcome)
	assert.Contains(t, result.Text, "Buy 1 Get 1 Free")
}

func TestChatMessageAndPreferences(t *testing.T) {
	ts := newTestServer(t,
		llmtest.Reply("Apples are great."),
		llmtest.Reply(`{"likes": ["apple"], "dislikes": []}`),
	)
	id := createSession(t, ts)

	res := postJSON(t, ts.URL+"/v1/sessions/"+id+"/messages", messageRequest{Text: "I love apples"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var result model.Result
	decode(t, res, &result)
	require.NotNil(t, result.Chat)
	assert.Equal(t, []string{"apple"}, result.Chat.AddedLikes)

	res = do(t, http.MethodGet, ts.URL+"/v1/sessions/"+id+"/preferences")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var prefs model.PreferenceSet
	decode(t, res, &prefs)
	assert.Equal(t, []string{"apple"}, prefs.Likes)

	res = do(t, http.MethodGet, ts.URL+"/v1/sessions/"+id+"/history")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var history struct {
		Turns []historyTurn `json:"turns"`
	}
	decode(t, res, &history)
	require.Len(t, history.Turns, 2)
	assert.Equal(t, "user", history.Turns[0].Role)
	assert.Equal(t, "assistant", history.Turns[1].Role)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/v1/sessions/"+id+"/preferences").StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/v1/sessions/"+id+"/history").StatusCode)

	res = do(t, http.MethodGet, ts.URL+"/v1/sessions/"+id+"/preferences")
	decode(t, res, &prefs)
	assert.Empty(t, prefs.Likes)
}

func TestChatDelegateFailureIsBadGateway(t *testing.T) {
	ts := newTestServer(t, llmtest.Fail(errors.New("connection refused")), llmtest.Reply("{}"))

	res := postJSON(t, ts.URL+"/v1/sessions/s1/messages", messageRequest{Text: "hello"})
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)

	var body errorResponse
	decode(t, res, &body)
	assert.Equal(t, "delegate_failure", body.Code)
}

func TestMessageValidation(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"))

	res := postJSON(t, ts.URL+"/v1/sessions/s1/messages", messageRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	raw, err := http.Post(ts.URL+"/v1/sessions/s1/messages", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	empty, err := http.Post(ts.URL+"/v1/sessions/s1/messages", "application/json", nil)
	require.NoError(t, err)
	defer empty.Body.Close()
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)
}

func TestMessageBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"))

	huge := `{"text": "` + strings.Repeat("a", maxBodyBytes) + `"}`
	res, err := http.Post(ts.URL+"/v1/sessions/s1/messages", "application/json", strings.NewReader(huge))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)

	var body errorResponse
	decode(t, res, &body)
	assert.Equal(t, "request_too_large", body.Code)
}

func TestEndSession(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("Apples are great."), llmtest.Reply(`{"likes": ["apple"], "dislikes": []}`))
	id := createSession(t, ts)

	res := postJSON(t, ts.URL+"/v1/sessions/"+id+"/messages", messageRequest{Text: "I love apples"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/v1/sessions/"+id).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/v1/sessions/"+id+"/preferences").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, ts.URL+"/v1/sessions/"+id).StatusCode)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("ok"), llmtest.Reply("{}"))

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/v1/sessions/nope/preferences").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/v1/sessions/nope/history").StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, llmtest.Reply("unused"), llmtest.Reply("{}"))
	id := createSession(t, ts)
	postJSON(t, ts.URL+"/v1/sessions/"+id+"/messages", messageRequest{Text: "do you sell mutton?"})

	res := do(t, http.MethodGet, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `test_httpapi_turns_total{intent="inventory"} 1`)
	assert.Contains(t, string(body), `test_httpapi_inventory_answers_total{outcome="not_found"} 1`)
	assert.Contains(t, string(body), "test_httpapi_active_sessions 1")
}
