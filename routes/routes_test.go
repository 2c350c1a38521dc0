package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"folio-cms/auth"
	"folio-cms/config"
	"folio-cms/middleware"
	"folio-cms/models"
	"folio-cms/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage interface{}     `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type IntegrationTestSuite struct {
	suite.Suite
	cfg      *config.Config
	db       *gorm.DB
	router   *gin.Engine
	tokens   *auth.TokenIssuer
	admin    *models.User
	alice    *models.User
	category *models.Category
}

func (suite *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = testutil.Config(suite.T())
	suite.db = testutil.OpenDB(suite.T(), suite.cfg)

	router, err := SetupRouter(suite.cfg, suite.db)
	suite.Require().NoError(err)
	suite.router = router
	suite.tokens = auth.NewTokenIssuer(suite.cfg.Auth)

	suite.admin = testutil.CreateUser(suite.T(), suite.db, "root", true)
	suite.alice = testutil.CreateUser(suite.T(), suite.db, "alice", false)
	suite.category = testutil.CreateCategory(suite.T(), suite.db, "Web", "web")
}

func (suite *IntegrationTestSuite) cookie(name string, user *models.User, kind auth.TokenKind) *http.Cookie {
	token, _, err := suite.tokens.Issue(user.ID, kind)
	suite.Require().NoError(err)
	return &http.Cookie{Name: name, Value: token}
}

func (suite *IntegrationTestSuite) session(user *models.User) *http.Cookie {
	return suite.cookie(middleware.SessionCookie, user, auth.KindSession)
}

func (suite *IntegrationTestSuite) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return suite.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (suite *IntegrationTestSuite) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return suite.do(req, cookies...)
}

func (suite *IntegrationTestSuite) postJSON(path string, payload interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return suite.do(req, cookies...)
}

func (suite *IntegrationTestSuite) decode(w *httptest.ResponseRecorder, data interface{}) envelope {
	var res envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	if data != nil {
		suite.Require().NoError(json.Unmarshal(res.Data, data))
	}
	return res
}

func (suite *IntegrationTestSuite) TestHealth() {
	w := suite.get("/health")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "healthy")
}

func (suite *IntegrationTestSuite) TestPublishedPostsAreListed() {
	testutil.CreatePost(suite.T(), suite.db, suite.alice, suite.category, "hello", true)
	testutil.CreatePost(suite.T(), suite.db, suite.alice, suite.category, "hidden", false)

	w := suite.get("/api/posts?page=1&limit=5")
	suite.Equal(http.StatusOK, w.Code)

	var data struct {
		Posts  []map[string]interface{} `json:"posts"`
		Paging map[string]interface{}   `json:"paging"`
	}
	res := suite.decode(w, &data)
	suite.Equal(200, res.Code)
	suite.Require().Len(data.Posts, 1)
	suite.Equal("hello", data.Posts[0]["slug"])
	suite.NotContains(data.Posts[0], "content")
	suite.Equal(float64(1), data.Paging["total_records"])

	w = suite.get("/api/categories/web/posts")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.get("/api/categories/nope/posts")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestDraftIsHiddenFromAnonymousButNotFromAuthor() {
	testutil.CreatePost(suite.T(), suite.db, suite.alice, suite.category, "draft", false)

	w := suite.get("/api/posts/draft")
	suite.Equal(http.StatusNotFound, w.Code)
	res := suite.decode(w, nil)
	suite.Equal(404, res.Code)

	token, _, err := suite.tokens.Issue(suite.alice.ID, auth.KindSession)
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodGet, "/api/posts/draft", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = suite.do(req)
	suite.Equal(http.StatusOK, w.Code)

	var post map[string]interface{}
	suite.decode(w, &post)
	suite.Equal("body of draft", post["content"])
}

func (suite *IntegrationTestSuite) TestCheckUpdates() {
	w := suite.get("/api/check-updates")
	suite.Require().Equal(http.StatusOK, w.Code)
	lastModified := w.Header().Get("Last-Modified")
	suite.NotEmpty(lastModified)

	var status models.ChangeStatus
	suite.decode(w, &status)
	suite.True(status.HasUpdates)

	etag := w.Header().Get("ETag")
	suite.NotEmpty(etag)

	req := httptest.NewRequest(http.MethodGet, "/api/check-updates", nil)
	req.Header.Set("If-None-Match", etag)
	w = suite.do(req)
	suite.Equal(http.StatusNotModified, w.Code)
	suite.Empty(w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/check-updates", nil)
	req.Header.Set("If-Modified-Since", status.LastUpdate.Add(time.Hour).UTC().Format(http.TimeFormat))
	w = suite.do(req)
	suite.Equal(http.StatusNotModified, w.Code)

	w = suite.postJSON("/api/check-updates", gin.H{"since": status.LastUpdate})
	suite.Require().Equal(http.StatusOK, w.Code)
	var unchanged models.ChangeStatus
	suite.decode(w, &unchanged)
	suite.False(unchanged.HasUpdates)

	w = suite.get("/api/check-updates?since=garbage")
	suite.Equal(http.StatusBadRequest, w.Code)
}

// A change landing within the same second as the last Last-Modified value
// must still be reported.
func (suite *IntegrationTestSuite) TestCheckUpdatesSeesSameSecondChange() {
	w := suite.get("/api/check-updates")
	suite.Require().Equal(http.StatusOK, w.Code)
	lastModified := w.Header().Get("Last-Modified")
	etag := w.Header().Get("ETag")

	w = suite.postForm("/admin/categories/new", url.Values{
		"name": {"Ops"},
		"slug": {"ops"},
	}, suite.session(suite.admin))
	suite.Require().Equal(http.StatusSeeOther, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/check-updates", nil)
	req.Header.Set("If-Modified-Since", lastModified)
	w = suite.do(req)
	suite.Require().Equal(http.StatusOK, w.Code)
	var status models.ChangeStatus
	suite.decode(w, &status)
	suite.True(status.HasUpdates)

	req = httptest.NewRequest(http.MethodGet, "/api/check-updates", nil)
	req.Header.Set("If-None-Match", etag)
	w = suite.do(req)
	suite.Equal(http.StatusOK, w.Code)
	suite.NotEqual(etag, w.Header().Get("ETag"))
}

func (suite *IntegrationTestSuite) TestLoginSetsCookies() {
	w := suite.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {testutil.Password},
		"remember": {"true"},
		"next":     {"/admin/posts"},
	})
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/admin/posts", w.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		names[c.Name] = c.HttpOnly
	}
	suite.True(names[middleware.SessionCookie])
	suite.True(names[middleware.RememberCookie])
}

func (suite *IntegrationTestSuite) TestLoginFailureShowsForm() {
	w := suite.postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong-password"}})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "invalid username or password")
	suite.Empty(w.Result().Cookies())
}

func (suite *IntegrationTestSuite) TestLoginIgnoresForeignNext() {
	w := suite.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {testutil.Password},
		"next":     {"//evil.example.com"},
	})
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/admin", w.Header().Get("Location"))
}

func (suite *IntegrationTestSuite) TestRememberCookieRenewsSession() {
	w := suite.get("/admin", suite.cookie(middleware.RememberCookie, suite.alice, auth.KindRemember))
	suite.Equal(http.StatusOK, w.Code)

	var renewed bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			renewed = true
		}
	}
	suite.True(renewed)
}

func (suite *IntegrationTestSuite) TestAdminPagesAreGuarded() {
	w := suite.get("/admin/posts")
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.True(strings.HasPrefix(w.Header().Get("Location"), "/login?next="))

	w = suite.get("/admin/categories", suite.session(suite.alice))
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.get("/admin/categories", suite.session(suite.admin))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Web")
}

func (suite *IntegrationTestSuite) TestDemotedAdminLosesAccess() {
	remember := suite.cookie(middleware.RememberCookie, suite.admin, auth.KindRemember)
	suite.Equal(http.StatusOK, suite.get("/admin/users", remember).Code)

	suite.Require().NoError(suite.db.Model(suite.admin).Update("is_admin", false).Error)

	suite.Equal(http.StatusForbidden, suite.get("/admin/users", remember).Code)
}

func (suite *IntegrationTestSuite) TestPostLifecycleThroughForms() {
	session := suite.session(suite.alice)

	w := suite.postForm("/admin/posts/new", url.Values{
		"title":       {"Hi"},
		"slug":        {"hi"},
		"content":     {"Hello there"},
		"category_id": {fmt.Sprint(suite.category.ID)},
		"published":   {"false"},
	}, session)
	suite.Require().Equal(http.StatusSeeOther, w.Code)

	suite.Equal(http.StatusNotFound, suite.get("/api/posts/hi").Code)

	var post models.Post
	suite.Require().NoError(suite.db.Where("slug = ?", "hi").First(&post).Error)
	suite.Equal(suite.alice.ID, post.UserID)

	w = suite.postForm(fmt.Sprintf("/admin/posts/%d/publish", post.ID), url.Values{"published": {"true"}}, session)
	suite.Require().Equal(http.StatusSeeOther, w.Code)
	suite.Equal(http.StatusOK, suite.get("/api/posts/hi").Code)

	w = suite.postForm(fmt.Sprintf("/admin/posts/%d/edit", post.ID), url.Values{
		"title":       {"Hi again"},
		"slug":        {"hi"},
		"content":     {"Hello again"},
		"category_id": {fmt.Sprint(suite.category.ID)},
		"published":   {"true", "false"},
	}, session)
	suite.Require().Equal(http.StatusSeeOther, w.Code)
	suite.Require().NoError(suite.db.First(&post, post.ID).Error)
	suite.Equal("Hi again", post.Title)
	suite.True(post.Published)

	w = suite.postForm(fmt.Sprintf("/admin/posts/%d/delete", post.ID), nil, session)
	suite.Equal(http.StatusSeeOther, w.Code)
	w = suite.postForm(fmt.Sprintf("/admin/posts/%d/delete", post.ID), nil, session)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestDuplicateSlugRerendersEditor() {
	testutil.CreatePost(suite.T(), suite.db, suite.admin, suite.category, "taken", true)

	w := suite.postForm("/admin/posts/new", url.Values{
		"title":       {"Mine"},
		"slug":        {"taken"},
		"content":     {"text"},
		"category_id": {fmt.Sprint(suite.category.ID)},
	}, suite.session(suite.alice))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "already used")
}

func (suite *IntegrationTestSuite) TestAutosave() {
	w := suite.postJSON("/admin/posts/autosave", gin.H{"post_id": 0, "title": "x"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.postJSON("/admin/posts/autosave", gin.H{"post_id": 0, "title": "x"}, suite.session(suite.alice))
	suite.Require().Equal(http.StatusOK, w.Code)
	var result models.AutosaveResult
	suite.decode(w, &result)
	suite.False(result.Saved)
}

func (suite *IntegrationTestSuite) TestSignup() {
	w := suite.postForm("/signup", url.Values{
		"username":         {"carol"},
		"email":            {"carol@example.com"},
		"password":         {"long-enough"},
		"confirm_password": {"long-enough"},
	})
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/login?registered=1", w.Header().Get("Location"))

	w = suite.postForm("/signup", url.Values{
		"username":         {"carol"},
		"email":            {"other@example.com"},
		"password":         {"long-enough"},
		"confirm_password": {"long-enough"},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "already taken")
}

func (suite *IntegrationTestSuite) TestAPIPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := suite.do(req)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
