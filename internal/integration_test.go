package internal_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fraud_report/internal/api"
	"fraud_report/internal/domain"
	"fraud_report/internal/processor"
	"fraud_report/pkg/crypto"
	"fraud_report/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *httptest.Server
	signer *crypto.Signer
}

func setup(t *testing.T, maxBatchSize int) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	metricsCollector := metrics.NewMetricsCollector(logger)
	engine := processor.NewRuleEngine(logger, processor.DefaultRules()...)
	proc := processor.NewTransactionProcessor(engine, metricsCollector, 4, logger)
	signer := crypto.NewSigner("test-secret", logger)
	handler := api.NewAPIHandler(proc, signer, maxBatchSize, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{server: server, signer: signer}
}

func postReport(t *testing.T, env *testEnv, contentType string, body []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(env.server.URL+"/api/v1/reports", contentType, bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestIntegration_JSONBatch(t *testing.T) {
	env := setup(t, 100)
	req := api.CreateReportRequest{Records: []string{
		"txn_1,user_1,150,2024-01-15T10:30:00Z,New York",
		"txn_2,user_1,2500,2024-01-15T10:35:00Z,Beijing",
		"txn_3,user_2,75,2024-01-15T11:00:00Z,London",
		"txn_4,user_1,50,2024-01-15T10:32:00Z,New York",
		"txn_5,user_1,200,2024-01-15T10:33:00Z,New York",
	}}
	body, _ := json.Marshal(req)

	resp, b := postReport(t, env, "application/json", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report domain.Report
	require.NoError(t, json.Unmarshal(b, &report))
	assert.Equal(t, domain.Summary{TotalTransactions: 5, FlaggedCount: 4, FraudRate: 0.8}, report.Summary)
	assert.Equal(t, []string{"highAmount", "rapidTransactions"}, report.Flagged[1].Reasons)
	assert.Equal(t, 130, report.Flagged[1].RiskScore)

	batchID := resp.Header.Get(api.HeaderBatchID)
	require.NotEmpty(t, batchID)
	assert.NoError(t, env.signer.VerifyReport(batchID, b, resp.Header.Get(api.HeaderSignature)))
}

func TestIntegration_PlainTextBatchWithErrors(t *testing.T) {
	env := setup(t, 100)
	body := "txn_1,user_1,100,invalid-date,New York\ntxn_5,user_5,not-a-number,2024-01-15T10:30:00Z,New York\n"

	resp, b := postReport(t, env, "text/plain; charset=utf-8", []byte(body))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t,
		`{"flagged":[],"summary":{"totalTransactions":2,"flaggedCount":0,"fraudRate":0},"errors":["Invalid data detected in transactions"]}`,
		string(b))
}

func TestIntegration_EmptyBatch(t *testing.T) {
	env := setup(t, 100)

	resp, b := postReport(t, env, "application/json", []byte(`{"records":[]}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"flagged":[],"summary":{"totalTransactions":0,"flaggedCount":0,"fraudRate":0}}`, string(b))
	assert.NotContains(t, string(b), "errors")
}

func TestIntegration_InvalidBody(t *testing.T) {
	env := setup(t, 100)

	resp, _ := postReport(t, env, "application/json", []byte(`{"records":`))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_BatchTooLarge(t *testing.T) {
	env := setup(t, 2)
	var lines []string
	for i := 0; i < 3; i++ {
		lines = append(lines, fmt.Sprintf("txn_%d,user_1,10,2024-01-15T10:00:00Z,Oslo", i))
	}

	resp, _ := postReport(t, env, "text/plain", []byte(strings.Join(lines, "\n")))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestIntegration_HealthCheck(t *testing.T) {
	env := setup(t, 100)

	resp, err := http.Get(env.server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
