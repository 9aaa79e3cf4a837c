package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// E2ETestSuite exercises the API end to end against a running instance.
// It needs a deployed stack (Postgres, MinIO, the server itself), so it is
// skipped unless E2E_BASE_URL points at one. The bootstrap admin credentials
// come from E2E_ADMIN_USERNAME / E2E_ADMIN_PASSWORD and must match the
// server's ADMIN_USERNAME / ADMIN_PASSWORD.
type E2ETestSuite struct {
	suite.Suite
	baseURL    string
	adminToken string
	userToken  string

	username string

	buildingID int
	spaceID    int
	bookingID  int
}

func (s *E2ETestSuite) SetupSuite() {
	s.baseURL = os.Getenv("E2E_BASE_URL")
	if s.baseURL == "" {
		s.T().Skip("E2E_BASE_URL not set; skipping end-to-end suite")
	}
	s.username = fmt.Sprintf("e2e_%d", time.Now().UnixNano())

	s.adminToken = s.login(os.Getenv("E2E_ADMIN_USERNAME"), os.Getenv("E2E_ADMIN_PASSWORD"))

	s.postJSON("/register", "", map[string]string{
		"username":  s.username,
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
	}, http.StatusCreated)
	s.userToken = s.login(s.username, "password123")
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (s *E2ETestSuite) login(username, password string) string {
	body := s.postJSON("/login", "", map[string]string{
		"username": username,
		"password": password,
	}, http.StatusOK)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func (s *E2ETestSuite) do(method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	var buf *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, s.baseURL+path, buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func (s *E2ETestSuite) postJSON(path, token string, payload interface{}, wantStatus int) map[string]interface{} {
	resp, body := s.do("POST", path, token, payload)
	s.Require().Equal(wantStatus, resp.StatusCode, "POST %s: %v", path, body)
	return body
}

func dataID(body map[string]interface{}) int {
	data := body["data"].(map[string]interface{})
	return int(data["id"].(float64))
}

func (s *E2ETestSuite) Test1_AdminCreatesInventory() {
	body := s.postJSON("/admin/buildings", s.adminToken, map[string]string{
		"city": "Moscow", "street": "Tverskaya", "house": "7",
	}, http.StatusCreated)
	s.buildingID = dataID(body)

	body = s.postJSON("/admin/spaces", s.adminToken, map[string]interface{}{
		"name":       "Conference Hall A",
		"capacity":   20,
		"buildingId": s.buildingID,
		"roomNumber": "101",
	}, http.StatusCreated)
	s.spaceID = dataID(body)

	// Hidden until shown; not in search yet.
	resp, searchBody := s.do("GET", "/spaces?q=Conference", s.userToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	meta := searchBody["data"].(map[string]interface{})["meta"].(map[string]interface{})
	s.Equal(float64(0), meta["total"])

	s.postJSON(fmt.Sprintf("/admin/spaces/%d/show", s.spaceID), s.adminToken, nil, http.StatusOK)
}

func (s *E2ETestSuite) Test2_UserBooksSpace() {
	from := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	to := from.Add(2 * time.Hour)

	body := s.postJSON(fmt.Sprintf("/spaces/%d/book", s.spaceID), s.userToken, map[string]string{
		"dateFrom": from.Format("2006-01-02 15:04"),
		"dateTo":   to.Format("2006-01-02 15:04"),
	}, http.StatusCreated)
	s.bookingID = dataID(body)

	// A second request for the same window also succeeds while the first one
	// is still NEW. Only confirmed bookings occupy the space.
	s.postJSON(fmt.Sprintf("/spaces/%d/book", s.spaceID), s.userToken, map[string]string{
		"dateFrom": from.Format("2006-01-02 15:04"),
		"dateTo":   to.Format("2006-01-02 15:04"),
	}, http.StatusCreated)

	// Inverted window is rejected outright.
	s.postJSON(fmt.Sprintf("/spaces/%d/book", s.spaceID), s.userToken, map[string]string{
		"dateFrom": to.Format("2006-01-02 15:04"),
		"dateTo":   from.Format("2006-01-02 15:04"),
	}, http.StatusBadRequest)
}

func (s *E2ETestSuite) Test3_AdminConfirmsAndConflictAppears() {
	s.postJSON(fmt.Sprintf("/admin/bookings/%d/confirm", s.bookingID), s.adminToken, nil, http.StatusOK)

	// The same window now conflicts with the confirmed booking.
	resp, body := s.do("GET", "/admin/bookings/pending", s.adminToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	_ = body

	from := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	to := from.Add(2 * time.Hour)
	respBody := s.postJSON(fmt.Sprintf("/spaces/%d/book", s.spaceID), s.userToken, map[string]string{
		"dateFrom": from.Add(time.Hour).Format("2006-01-02 15:04"),
		"dateTo":   to.Add(time.Hour).Format("2006-01-02 15:04"),
	}, http.StatusBadRequest)
	errObj := respBody["error"].(map[string]interface{})
	s.Equal("CONFLICT", errObj["code"])

	// Back to back is allowed: half-open intervals do not touch.
	s.postJSON(fmt.Sprintf("/spaces/%d/book", s.spaceID), s.userToken, map[string]string{
		"dateFrom": to.Format("2006-01-02 15:04"),
		"dateTo":   to.Add(time.Hour).Format("2006-01-02 15:04"),
	}, http.StatusCreated)
}

func (s *E2ETestSuite) Test4_ConfirmedGuestCanReview() {
	body := s.postJSON(fmt.Sprintf("/spaces/%d/reviews", s.spaceID), s.userToken, map[string]string{
		"text": "Great projector, comfortable seats.",
	}, http.StatusCreated)
	reviewID := dataID(body)

	// A fresh user without a confirmed booking is rejected.
	username := fmt.Sprintf("e2e_other_%d", time.Now().UnixNano())
	s.postJSON("/register", "", map[string]string{
		"username":  username,
		"password":  "password123",
		"firstName": "Other",
		"lastName":  "User",
	}, http.StatusCreated)
	otherToken := s.login(username, "password123")
	s.postJSON(fmt.Sprintf("/spaces/%d/reviews", s.spaceID), otherToken, map[string]string{
		"text": "Never been there.",
	}, http.StatusForbidden)

	// The author may edit their own review; the edit hides it again until it
	// is re-approved.
	resp, editBody := s.do("PATCH", fmt.Sprintf("/reviews/%d", reviewID), s.userToken, map[string]string{
		"text": "Great projector, and the seats got even better.",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, "edit review: %v", editBody)
	edited := editBody["data"].(map[string]interface{})
	s.Equal("Great projector, and the seats got even better.", edited["text"])
	s.Equal(false, edited["isVisible"])

	// Other users cannot edit it.
	resp, _ = s.do("PATCH", fmt.Sprintf("/reviews/%d", reviewID), otherToken, map[string]string{
		"text": "hijacked",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *E2ETestSuite) Test5_AdminOnlyRoutes() {
	resp, _ := s.do("GET", "/admin/users", s.userToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do("GET", "/admin/users", s.adminToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) uploadFile(path, token, fileName string, content []byte, wantStatus int) map[string]interface{} {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", fileName)
	s.Require().NoError(err)
	_, err = fw.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req, err := http.NewRequest("POST", s.baseURL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	s.Require().Equal(wantStatus, resp.StatusCode, "upload %s: %v", path, body)
	return body
}

func (s *E2ETestSuite) samplePNG() []byte {
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func (s *E2ETestSuite) Test6_AvatarUpload() {
	body := s.uploadFile("/me/avatar", s.userToken, "me.png", s.samplePNG(), http.StatusCreated)
	profile := body["data"].(map[string]interface{})["profile"].(map[string]interface{})
	s.NotEmpty(profile["avatarKey"])

	// Replacing the avatar swaps the stored key.
	body = s.uploadFile("/me/avatar", s.userToken, "me2.png", s.samplePNG(), http.StatusCreated)
	replaced := body["data"].(map[string]interface{})["profile"].(map[string]interface{})
	s.NotEmpty(replaced["avatarKey"])
	s.NotEqual(profile["avatarKey"], replaced["avatarKey"])

	// Download redirects to the presigned object URL.
	client := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	req, err := http.NewRequest("GET", s.baseURL+"/me/avatar", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.userToken)
	resp, err := client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusFound, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("Location"))
}

func (s *E2ETestSuite) Test7_HomeWidgets() {
	resp, body := s.do("GET", "/widgets/home", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	s.Contains(data, "popularSpaces")
	s.Contains(data, "upcomingEvents")
	s.Contains(data, "topOrganizers")
}
