//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/sekolahku/pelajar-gateway/internal/model"
)

// The gateway under test must run with SCHOOL_API_BASE_URL pointed at
// the mock school API this suite serves, e.g.:
//
//	SCHOOL_API_BASE_URL=http://localhost:5599 go run ./cmd/server
//	go test -tags e2e ./test/e2e
const (
	defaultBaseURL  = "http://localhost:8080/api/v1"
	defaultMockPort = "5599"
	bearerToken     = "e2e-bearer-token"
)

const importCSV = `Student Code,Academic Year,Class,Full Name,Other Name,Date of Birth,Gender,Email,Phone Number,Parent Name,Parent Contact,Parent Email,Address
STU001,2024/2025,1A,Ahmad bin Abdullah,,2010-05-15,Male,ahmad@example.com,0123456789,Abdullah bin Hassan,0198765432,abdullah@example.com,"12 Jalan Merdeka, Kuala Lumpur"
STU002,2024/2025,1A,Tan Mei Ling,陈美玲,2010-08-20,perempuan,,,Tan Ah Kow,0171234567,,
STU003,2024/2025,9Z,Budi Santoso,,,Male,,,,,,
`

var (
	baseURL   string
	sessionID string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	mockPort := os.Getenv("MOCK_UPSTREAM_PORT")
	if mockPort == "" {
		mockPort = defaultMockPort
	}

	// 1. Serve the mock school API the gateway talks to.
	ln, err := net.Listen("tcp", ":"+mockPort)
	if err != nil {
		fmt.Printf("mock upstream listen failed: %v\n", err)
		os.Exit(1)
	}
	go http.Serve(ln, mockSchoolAPI())

	// 2. Run Tests
	code := m.Run()

	ln.Close()
	os.Exit(code)
}

// mockSchoolAPI imitates the two upstream endpoints the gateway uses.
func mockSchoolAPI() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/students/validation-data", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+bearerToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "token rejected"})
			return
		}
		json.NewEncoder(w).Encode(model.ReferenceData{
			AcademicYears: []model.AcademicYear{{ID: 1, Name: "2024/2025"}},
			Grades:        []model.GradeLevel{{ID: 1, Name: "Form 1"}},
			Classes:       []model.SchoolClass{{ID: 1, Name: "1A", GradeID: 1, YearID: 1}},
		})
	})

	mux.HandleFunc("/api/students/import", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Students []model.StudentPayload `json:"students"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad payload"})
			return
		}
		json.NewEncoder(w).Encode(model.ImportResult{
			Success:      true,
			TotalRows:    len(req.Students),
			SuccessCount: len(req.Students),
			Errors:       []model.RowError{},
		})
	})

	return mux
}

func TestImportFlow(t *testing.T) {
	// Step 0: Template download needs no token.
	t.Run("DownloadTemplate", func(t *testing.T) {
		resp, err := get("/public/import-template", "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		if !strings.Contains(resp.Header.Get("Content-Disposition"), ".xlsx") {
			t.Errorf("unexpected Content-Disposition %q", resp.Header.Get("Content-Disposition"))
		}
		if body := readBody(resp); len(body) == 0 {
			t.Error("template body empty")
		}
		t.Logf("Template downloaded")
	})

	// Step 1: Admin routes reject missing tokens.
	t.Run("RejectMissingToken", func(t *testing.T) {
		resp, err := post("/admin/imports", nil, "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 2: Create an import session.
	t.Run("CreateSession", func(t *testing.T) {
		resp, err := post("/admin/imports", nil, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Session struct {
					ID              string `json:"id"`
					ReferenceLoaded bool   `json:"reference_loaded"`
				} `json:"session"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		sessionID = body.Data.Session.ID
		if sessionID == "" {
			t.Fatal("session id missing")
		}
		if !body.Data.Session.ReferenceLoaded {
			t.Fatal("reference data not loaded from mock upstream")
		}
		t.Logf("Session created: %s", sessionID)
	})

	// Step 3: Upload the spreadsheet.
	t.Run("UploadFile", func(t *testing.T) {
		resp, err := postFile("/admin/imports/"+sessionID+"/file", "students.csv", []byte(importCSV), bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Session struct {
					TotalRows   int `json:"total_rows"`
					ValidRows   int `json:"valid_rows"`
					InvalidRows int `json:"invalid_rows"`
				} `json:"session"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Session.TotalRows != 3 || body.Data.Session.ValidRows != 2 || body.Data.Session.InvalidRows != 1 {
			t.Fatalf("unexpected counts: %+v", body.Data.Session)
		}
		t.Logf("File loaded: 3 rows, 2 valid")
	})

	// Step 4: Review the rows.
	t.Run("ListRows", func(t *testing.T) {
		resp, err := get("/admin/imports/"+sessionID+"/rows?per_page=100", bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Rows []model.ImportRow `json:"rows"`
			} `json:"data"`
			Pagination struct {
				TotalItems int `json:"total_items"`
			} `json:"pagination"`
		}
		decodeJSON(t, resp, &body)
		if body.Pagination.TotalItems != 3 || len(body.Data.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d (total %d)", len(body.Data.Rows), body.Pagination.TotalItems)
		}

		// Normalization applied during parsing.
		if body.Data.Rows[1].Gender != "Female" {
			t.Errorf("gender not normalized: %q", body.Data.Rows[1].Gender)
		}
		// Row 4 (STU003) failed the class check.
		last := body.Data.Rows[2]
		if last.RowNumber != 4 || last.IsValid || len(last.Errors) == 0 {
			t.Errorf("expected invalid row 4, got %+v", last)
		}
	})

	// Step 5: Remove the invalid row.
	t.Run("RemoveInvalidRow", func(t *testing.T) {
		resp, err := del("/admin/imports/"+sessionID+"/rows/4", bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		// Removing it again must 404.
		resp2, err := del("/admin/imports/"+sessionID+"/rows/4", bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 on repeat removal, got %d", resp2.StatusCode)
		}
		t.Logf("Invalid row removed")
	})

	// Step 6: Submit to the school API.
	t.Run("Submit", func(t *testing.T) {
		resp, err := post("/admin/imports/"+sessionID+"/submit", nil, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Result model.ImportResult `json:"result"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if !body.Data.Result.Success || body.Data.Result.SuccessCount != 2 {
			t.Fatalf("unexpected result: %+v", body.Data.Result)
		}
		t.Logf("Submitted 2 students")
	})

	// Step 7: The result is recorded on the session.
	t.Run("SessionShowsResult", func(t *testing.T) {
		resp, err := get("/admin/imports/"+sessionID, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Session struct {
					Submitting bool                `json:"submitting"`
					Result     *model.ImportResult `json:"result"`
				} `json:"session"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Session.Submitting {
			t.Error("session still marked submitting")
		}
		if body.Data.Session.Result == nil || body.Data.Session.Result.SuccessCount != 2 {
			t.Errorf("result not recorded: %+v", body.Data.Session.Result)
		}
	})

	// Step 8: Submitting an empty session reports 422 without upstream calls.
	t.Run("SubmitEmptySession", func(t *testing.T) {
		resp, err := post("/admin/imports", nil, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		var body struct {
			Data struct {
				Session struct {
					ID string `json:"id"`
				} `json:"session"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		resp.Body.Close()

		resp2, err := post("/admin/imports/"+body.Data.Session.ID+"/submit", nil, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d: %s", resp2.StatusCode, readBody(resp2))
		}
	})

	// Step 9: Discard the session.
	t.Run("DeleteSession", func(t *testing.T) {
		resp, err := del("/admin/imports/"+sessionID, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		resp2, err := get("/admin/imports/"+sessionID, bearerToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", resp2.StatusCode)
		}
		t.Logf("Session discarded")
	})
}

func post(path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest("POST", baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func postFile(path, filename string, data []byte, token string) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequest("POST", baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	return client.Do(req)
}

func get(path string, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func del(path string, token string) (*http.Response, error) {
	req, err := http.NewRequest("DELETE", baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
