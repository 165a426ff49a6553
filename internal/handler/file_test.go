package handler_test

import (
	"CloudStore/config"
	"CloudStore/internal/repo"
	"CloudStore/internal/session"
	"CloudStore/internal/storage"
	"CloudStore/model"
	"CloudStore/router"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var testEnvOnce sync.Once
var testRouter *gin.Engine

func setupTestEnv(t *testing.T) {
	testEnvOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		config.InitConfig()
		repo.InitMysqlTest()
		repo.InitRedis()
		storage.InitMinioTest()
		session.InitSessionStore()
		config.AppConfig.BucketName = config.AppConfig.BucketNameTest
		testRouter = router.InitRouter()
	})
	cleanTables(t)
}

func cleanTables(t *testing.T) {
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	for _, table := range []string{"file_record", "user_db"} {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")
	if err := repo.Redis.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flush redis failed: %v", err)
	}
}

// loginAs creates a user directly and mints a session for it.
func loginAs(t *testing.T, name string) (*model.User, string) {
	user := &model.User{
		UserName: name,
		Password: "$2a$10$not.a.real.hash.but.unused.in.this.test.aaaaaaaaaaa",
		Email:    name + "@test.com",
	}
	if err := repo.Db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	token, err := session.Default.Create(context.Background(), session.Identity{
		UserID:   user.ID,
		Username: user.UserName,
	}, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return user, token
}

func uploadRequest(t *testing.T, token, filename string, data []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func TestUploadRequiresSession(t *testing.T) {
	setupTestEnv(t)

	w := uploadRequest(t, "", "hello.txt", []byte("hello"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var count int64
	repo.Db.Model(&model.File{}).Count(&count)
	if count != 0 {
		t.Fatalf("unauthenticated upload created %d records", count)
	}
}

func TestListAndDeleteRequireSession(t *testing.T) {
	setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/files/my-files", nil)
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("list status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/files/1", nil)
	w = httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("delete status = %d, want 401", w.Code)
	}
}

func TestUploadListDeleteFlow(t *testing.T) {
	setupTestEnv(t)
	_, token := loginAs(t, "flow_u1")
	_, otherToken := loginAs(t, "flow_u2")

	w := uploadRequest(t, token, "hello.txt", []byte("hello"))
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}
	var uploadResp struct {
		Success bool `json:"success"`
		File    struct {
			ID           uint64 `json:"id"`
			OriginalName string `json:"originalName"`
			SizeBytes    int64  `json:"sizeBytes"`
		} `json:"file"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploadResp); err != nil {
		t.Fatal(err)
	}
	if !uploadResp.Success || uploadResp.File.SizeBytes != 5 || uploadResp.File.OriginalName != "hello.txt" {
		t.Fatalf("unexpected upload response: %s", w.Body.String())
	}

	// Owner sees the file; another principal does not.
	listBody := listFiles(t, token)
	if len(listBody.Files) != 1 || listBody.Files[0].SizeBytes != 5 {
		t.Fatalf("owner listing wrong: %+v", listBody.Files)
	}
	otherBody := listFiles(t, otherToken)
	if len(otherBody.Files) != 0 {
		t.Fatalf("foreign listing leaked %d entries", len(otherBody.Files))
	}

	// A second upload must show up in the next listing even though the
	// first one was just cached.
	w = uploadRequest(t, token, "world.txt", []byte("world!!"))
	if w.Code != http.StatusOK {
		t.Fatalf("second upload status = %d, body %s", w.Code, w.Body.String())
	}
	listBody = listFiles(t, token)
	if len(listBody.Files) != 2 {
		t.Fatalf("listing after second upload has %d entries, want 2", len(listBody.Files))
	}

	// A foreign principal cannot delete, and cannot learn the file exists.
	w = deleteFile(t, otherToken, uploadResp.File.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", w.Code)
	}

	w = deleteFile(t, token, uploadResp.File.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}
	w = deleteFile(t, token, uploadResp.File.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", w.Code)
	}

	// The deleted file must drop out of the listing immediately.
	listBody = listFiles(t, token)
	if len(listBody.Files) != 1 || listBody.Files[0].OriginalName != "world.txt" {
		t.Fatalf("listing after delete wrong: %+v", listBody.Files)
	}
}

func TestUploadMissingPart(t *testing.T) {
	setupTestEnv(t)
	_, token := loginAs(t, "nopart_u")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("note", "no file here")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// downSessionStore fails every call, standing in for a session backend
// outage.
type downSessionStore struct{}

func (downSessionStore) Create(ctx context.Context, identity session.Identity, ttl time.Duration) (string, error) {
	return "", errors.New("session backend unavailable")
}

func (downSessionStore) Resolve(ctx context.Context, token string) (*session.Identity, error) {
	return nil, errors.New("session backend unavailable")
}

func (downSessionStore) Destroy(ctx context.Context, token string) error {
	return errors.New("session backend unavailable")
}

func TestSessionBackendOutageIsNotUnauthorized(t *testing.T) {
	setupTestEnv(t)
	saved := session.Default
	session.Default = downSessionStore{}
	defer func() { session.Default = saved }()

	req := httptest.NewRequest(http.MethodGet, "/api/files/my-files", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "some-live-token"})
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

type listResponse struct {
	Files []struct {
		StoredName   string `json:"storedName"`
		OriginalName string `json:"originalName"`
		SizeBytes    int64  `json:"sizeBytes"`
		ContentType  string `json:"contentType"`
	} `json:"files"`
}

func listFiles(t *testing.T, token string) listResponse {
	req := httptest.NewRequest(http.MethodGet, "/api/files/my-files", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", w.Code, w.Body.String())
	}
	var body listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body
}

func deleteFile(t *testing.T, token string, fileID uint64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/files/%d", fileID), nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}
