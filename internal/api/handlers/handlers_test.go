package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"solarcoin-analytics/internal/api/models"
	"solarcoin-analytics/internal/config"
	"solarcoin-analytics/internal/store"

	"github.com/gin-gonic/gin"
)

const testCSV = `timestamp,seller,buyer,energy_kWh,price_per_kWh
2024-03-01T10:05:00,P1,P2,10,0.1
2024-03-01T10:45:00,P2,P3,5,0.2
2024-03-01T11:30:00,P1,P3,2,0.5
`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	datasets := store.New()
	datasetHandler := NewDatasetHandler(datasets, cfg)
	analyticsHandler := NewAnalyticsHandler(datasets, cfg)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/datasets", datasetHandler.Upload)
	api.GET("/datasets", datasetHandler.List)
	api.DELETE("/datasets/:id", datasetHandler.Delete)
	api.GET("/datasets/:id/summary", analyticsHandler.Summary)
	api.GET("/datasets/:id/balances", analyticsHandler.Balances)
	api.GET("/datasets/:id/graph", analyticsHandler.Graph)
	api.GET("/datasets/:id/timeline", analyticsHandler.Timeline)
	api.GET("/datasets/:id/transactions", analyticsHandler.Transactions)
	api.GET("/datasets/:id/rankings", analyticsHandler.Rankings)
	return r
}

func uploadCSV(t *testing.T, r *gin.Engine, csv string) (*httptest.ResponseRecorder, models.UploadResponse) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "trades.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.UploadResponse
	if w.Code == http.StatusCreated {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode upload response: %v", err)
		}
	}
	return w, resp
}

func getJSON(t *testing.T, r *gin.Engine, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return w.Code
}

func TestUploadAndSummary(t *testing.T) {
	r := newTestRouter(t)

	w, resp := uploadCSV(t, r, testCSV)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}
	if resp.Dataset.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", resp.Dataset.TransactionCount)
	}
	if resp.Summary.TotalParticipants != 3 {
		t.Errorf("TotalParticipants = %d, want 3", resp.Summary.TotalParticipants)
	}
}

func TestUpload_MissingColumns(t *testing.T) {
	r := newTestRouter(t)

	w, _ := uploadCSV(t, r, "timestamp,seller\n2024-03-01,P1\n")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "MISSING_COLUMNS" {
		t.Errorf("error code = %q, want MISSING_COLUMNS", resp.Error.Code)
	}
}

func TestBalancesEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_, up := uploadCSV(t, r, testCSV)

	var resp models.BalancesResponse
	if code := getJSON(t, r, "/api/v1/datasets/"+up.Dataset.ID+"/balances", &resp); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(resp.Balances) != 3 {
		t.Fatalf("balances = %d, want 3", len(resp.Balances))
	}
	// Ranked descending by net balance: P1 sold 12, bought 0.
	if resp.Balances[0].Participant != "P1" {
		t.Errorf("top participant = %q, want P1", resp.Balances[0].Participant)
	}
}

func TestGraphEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_, up := uploadCSV(t, r, testCSV)

	var resp struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	if code := getJSON(t, r, "/api/v1/datasets/"+up.Dataset.ID+"/graph", &resp); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(resp.Nodes) != 3 || len(resp.Edges) != 3 {
		t.Errorf("graph = %d nodes %d edges, want 3 and 3", len(resp.Nodes), len(resp.Edges))
	}
}

func TestTimelineEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_, up := uploadCSV(t, r, testCSV)

	var resp models.TimelineResponse
	if code := getJSON(t, r, "/api/v1/datasets/"+up.Dataset.ID+"/timeline", &resp); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(resp.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2 hourly buckets", len(resp.Buckets))
	}
	if resp.Buckets[0].Count != 2 {
		t.Errorf("bucket[0].Count = %d, want 2", resp.Buckets[0].Count)
	}

	code := getJSON(t, r, "/api/v1/datasets/"+up.Dataset.ID+"/timeline?granularity=bogus", nil)
	if code != http.StatusBadRequest {
		t.Errorf("bogus granularity status = %d, want 400", code)
	}
}

func TestTransactionsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_, up := uploadCSV(t, r, testCSV)

	base := "/api/v1/datasets/" + up.Dataset.ID + "/transactions"

	var resp models.TransactionsResponse
	if code := getJSON(t, r, base+"?search=p1&sort=energy_kWh&dir=desc", &resp); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.TotalMatched != 2 {
		t.Fatalf("TotalMatched = %d, want 2 (P1 rows)", resp.TotalMatched)
	}
	if resp.Transactions[0].EnergyKWh != 10 {
		t.Errorf("first row energy = %v, want 10 (desc)", resp.Transactions[0].EnergyKWh)
	}

	code := getJSON(t, r, base+"?page_size=-1", nil)
	if code != http.StatusBadRequest {
		t.Errorf("negative page_size status = %d, want 400", code)
	}

	if code := getJSON(t, r, base+"?page=99", &resp); code != http.StatusOK {
		t.Fatalf("out-of-range page status = %d, want 200", code)
	}
	if len(resp.Transactions) != 0 || resp.TotalMatched != 3 {
		t.Errorf("out-of-range page = %+v, want empty items with TotalMatched 3", resp)
	}
}

func TestRankingsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_, up := uploadCSV(t, r, testCSV)

	var resp models.RankingsResponse
	if code := getJSON(t, r, "/api/v1/datasets/"+up.Dataset.ID+"/rankings?balance_limit=1", &resp); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(resp.TopBalances) != 1 {
		t.Errorf("TopBalances = %d, want 1", len(resp.TopBalances))
	}
	if len(resp.TopPairs) != 3 {
		t.Errorf("TopPairs = %d, want 3", len(resp.TopPairs))
	}
}

func TestDatasetNotFound(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/datasets/nope/summary",
		"/api/v1/datasets/nope/balances",
		"/api/v1/datasets/nope/graph",
		"/api/v1/datasets/nope/timeline",
		"/api/v1/datasets/nope/transactions",
		"/api/v1/datasets/nope/rankings",
	} {
		if code := getJSON(t, r, path, nil); code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, code)
		}
	}
}

func TestDeleteDataset(t *testing.T) {
	r := newTestRouter(t)
	_, up := uploadCSV(t, r, testCSV)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/datasets/"+up.Dataset.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}

	if code := getJSON(t, r, "/api/v1/datasets/"+up.Dataset.ID+"/summary", nil); code != http.StatusNotFound {
		t.Errorf("summary after delete = %d, want 404", code)
	}
}
