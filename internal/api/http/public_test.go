package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/mock"

	"github.com/ndanilin/golinks/internal/config"
	"github.com/ndanilin/golinks/internal/database"
	"github.com/ndanilin/golinks/internal/models"
)

func (suite *HandlersTestSuite) TestHealth() {
	for _, path := range []string{"/health", "/status"} {
		suite.Run(path, func() {
			suite.e.GET(path).
				Expect().
				Status(http.StatusOK).
				Text().IsEqual("OK")
		})
	}
}

func (suite *HandlersTestSuite) TestHome() {
	suite.Run("redirects to the configured homepage", func() {
		suite.e.GET("/").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com/home")
	})
}

func (suite *HandlersTestSuite) TestListAll() {
	const path = "/all.json"

	suite.Run("returns all records with a cache header", func() {
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return([]*models.Record{testRecord()}, nil)

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusOK)

		resp.Header("Cache-Control").IsEqual("public, max-age=300")

		arr := resp.JSON().Array()
		arr.Length().IsEqual(1)
		arr.Value(0).Object().
			HasValue("slug", "test-slug").
			HasValue("url", "https://example.com/test")
	})

	suite.Run("empty store yields an empty array", func() {
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, nil)

		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Array().IsEmpty()
	})

	suite.Run("server error", func() {
		suite.svcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, errors.New("unknown error"))

		suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("error", "Internal server error")
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	suite.Run("browsers get an uncached 301", func() {
		suite.svcMock.
			On("Resolve", mock.Anything, "test-slug").
			Times(1).
			Return(testRecord(), nil)

		resp := suite.e.GET("/test-slug").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/130.0").
			Expect().
			Status(http.StatusMovedPermanently)

		resp.Header("Location").IsEqual("https://example.com/test")
		resp.Header("Cache-Control").IsEqual("no-store")
	})

	suite.Run("social crawlers get an OG preview page", func() {
		suite.svcMock.
			On("Resolve", mock.Anything, "test-slug").
			Times(1).
			Return(testRecord(), nil)

		resp := suite.e.GET("/test-slug").
			WithHeader("User-Agent", "facebookexternalhit/1.1").
			Expect().
			Status(http.StatusOK)

		resp.Header("Cache-Control").IsEqual("public, max-age=3600")

		body := resp.Body()
		body.Contains(`<meta property="og:title"`)
		body.Contains("Example Title")
		body.Contains(`http-equiv="refresh"`)
		body.Contains("https://example.com/test")
	})

	suite.Run("crawler preview falls back without metadata", func() {
		rec := testRecord()
		rec.Metadata = nil

		suite.svcMock.
			On("Resolve", mock.Anything, "test-slug").
			Times(1).
			Return(rec, nil)

		body := suite.e.GET("/test-slug").
			WithHeader("User-Agent", "Slackbot-LinkExpanding 1.0").
			Expect().
			Status(http.StatusOK).
			Body()

		body.Contains(`<meta property="og:title" content="test-slug"`)
		body.NotContains("og:image")
	})

	suite.Run("malformed slug", func() {
		suite.e.GET("/Bad_Slug").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("error", "Invalid slug")
	})

	suite.Run("unknown slug", func() {
		suite.svcMock.
			On("Resolve", mock.Anything, "missing-slug").
			Times(1).
			Return(nil, database.ErrRecordNotFound)

		suite.e.GET("/missing-slug").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("error", "Not found")
	})

	suite.Run("rate limited per client", func() {
		cfg := testConfig()
		cfg.RateLimit.Redirect = config.Rule{Limit: 1, Window: time.Minute}
		suite.start(cfg)

		suite.svcMock.
			On("Resolve", mock.Anything, "test-slug").
			Times(1).
			Return(testRecord(), nil)

		suite.e.GET("/test-slug").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithHeader("X-Forwarded-For", "203.0.113.7").
			Expect().
			Status(http.StatusMovedPermanently)

		suite.e.GET("/test-slug").
			WithHeader("X-Forwarded-For", "203.0.113.7").
			Expect().
			Status(http.StatusTooManyRequests).
			JSON().Object().
			HasValue("error", "Rate limit exceeded")

		// Another client still gets through.
		suite.svcMock.
			On("Resolve", mock.Anything, "test-slug").
			Times(1).
			Return(testRecord(), nil)

		suite.e.GET("/test-slug").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			WithHeader("X-Forwarded-For", "203.0.113.8").
			Expect().
			Status(http.StatusMovedPermanently)
	})
}
