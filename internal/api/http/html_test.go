package http

import (
	"errors"
	"net/http"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/mock"

	"github.com/ndanilin/golinks/internal/auth"
	"github.com/ndanilin/golinks/internal/database"
	"github.com/ndanilin/golinks/internal/models"
)

func (suite *HandlersTestSuite) TestLogin() {
	suite.Run("login page", func() {
		suite.e.GET("/admin/login").
			Expect().
			Status(http.StatusOK).
			HasContentType("text/html").
			Body().Contains(`name="password"`)
	})

	suite.Run("wrong password", func() {
		suite.e.POST("/admin/login").
			WithForm(map[string]string{"password": "wrong"}).
			Expect().
			Status(http.StatusUnauthorized).
			Body().Contains("Invalid password")
	})

	suite.Run("correct password sets cookie", func() {
		resp := suite.e.POST("/admin/login").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithForm(map[string]string{"password": testSecret}).
			Expect().
			Status(http.StatusFound)

		resp.Header("Location").IsEqual("/admin")
		resp.Cookie(auth.SessionCookie).Value().NotEmpty()
	})

	suite.Run("login page redirects when already signed in", func() {
		session := suite.sessionValue()

		suite.e.GET("/admin/login").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("/admin")
	})

	suite.Run("logout clears cookie", func() {
		session := suite.sessionValue()

		resp := suite.e.POST("/admin/logout").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusFound)

		resp.Header("Location").IsEqual("/admin/login")
		resp.Cookie(auth.SessionCookie).Value().IsEmpty()
	})
}

func (suite *HandlersTestSuite) TestDashboard() {
	suite.Run("redirects to login without session", func() {
		suite.e.GET("/admin").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("/admin/login")
	})

	suite.Run("rejects tampered session", func() {
		suite.e.GET("/admin").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithCookie(auth.SessionCookie, "1700000000.deadbeef").
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("/admin/login")
	})

	suite.Run("lists records", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return([]*models.Record{testRecord()}, nil)

		suite.e.GET("/admin").
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusOK).
			HasContentType("text/html").
			Body().
			Contains("test-slug").
			Contains("https://example.com/test")
	})

	suite.Run("renders when listing fails", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, errors.New("unknown error"))

		suite.e.GET("/admin").
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusOK).
			HasContentType("text/html")
	})
}

func (suite *HandlersTestSuite) TestEditPage() {
	suite.Run("shows record", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Resolve", mock.Anything, "test-slug").
			Times(1).
			Return(testRecord(), nil)

		suite.e.GET("/admin/edit/test-slug").
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusOK).
			Body().Contains("https://example.com/test")
	})

	suite.Run("unknown slug", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Resolve", mock.Anything, "missing").
			Times(1).
			Return(nil, database.ErrRecordNotFound)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, nil)

		suite.e.GET("/admin/edit/missing").
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusNotFound).
			Body().Contains("Not found")
	})
}

func (suite *HandlersTestSuite) TestCreateForm() {
	suite.Run("success shows short url banner", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Create", mock.Anything, "https://example.com/test", "").
			Times(1).
			Return(testRecord(), nil)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return([]*models.Record{testRecord()}, nil)

		suite.e.POST("/admin/create").
			WithCookie(auth.SessionCookie, session).
			WithForm(map[string]string{"url": "https://example.com/test"}).
			Expect().
			Status(http.StatusOK).
			Body().Contains("Created https://go.example.com/test-slug")
	})

	suite.Run("taken slug shows banner", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Create", mock.Anything, "https://example.com", "test-slug").
			Times(1).
			Return(nil, database.ErrSlugExists)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, nil)

		suite.e.POST("/admin/create").
			WithCookie(auth.SessionCookie, session).
			WithForm(map[string]string{"url": "https://example.com", "slug": "test-slug"}).
			Expect().
			Status(http.StatusConflict).
			Body().Contains("Slug already exists")
	})

	suite.Run("requires session", func() {
		suite.e.POST("/admin/create").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithForm(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("/admin/login")
	})
}

func (suite *HandlersTestSuite) TestUpdateForm() {
	suite.Run("success", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Update", mock.Anything, "test-slug", "https://example.com/new").
			Times(1).
			Return(testRecord(), nil)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return([]*models.Record{testRecord()}, nil)

		suite.e.POST("/admin/update/test-slug").
			WithCookie(auth.SessionCookie, session).
			WithForm(map[string]string{"url": "https://example.com/new"}).
			Expect().
			Status(http.StatusOK).
			Body().Contains("Updated https://go.example.com/test-slug")
	})

	suite.Run("unknown slug", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Update", mock.Anything, "missing", "https://example.com").
			Times(1).
			Return(nil, database.ErrRecordNotFound)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, nil)

		suite.e.POST("/admin/update/missing").
			WithCookie(auth.SessionCookie, session).
			WithForm(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusNotFound).
			Body().Contains("Not found")
	})
}

func (suite *HandlersTestSuite) TestDeleteForm() {
	suite.Run("success", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Delete", mock.Anything, "test-slug").
			Times(1).
			Return(nil)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, nil)

		suite.e.POST("/admin/delete/test-slug").
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusOK).
			Body().Contains("Deleted test-slug")
	})

	suite.Run("unknown slug", func() {
		session := suite.sessionValue()

		suite.svcMock.
			On("Delete", mock.Anything, "missing").
			Times(1).
			Return(database.ErrRecordNotFound)
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, nil)

		suite.e.POST("/admin/delete/missing").
			WithCookie(auth.SessionCookie, session).
			Expect().
			Status(http.StatusNotFound).
			Body().Contains("Not found")
	})
}
