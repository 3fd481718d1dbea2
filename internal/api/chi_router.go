// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/middleware"
)

// Router wires handlers, auth, and Chi middleware into an http.Handler.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router from handler and auth middleware. CORS and
// rate limit settings come from the handler's security config.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware) *Router {
	sec := handler.config.Security
	chiMw := NewChiMiddlewareFromConfig(
		sec.CORSOrigins,
		sec.RateLimitRequests,
		sec.RateLimitWindow,
		sec.RateLimitDisabled,
	)

	return &Router{
		handler:       handler,
		middleware:    authMiddleware,
		chiMiddleware: chiMw,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it composes with r.Use().
func chiMiddlewareFunc(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	authenticate := router.middleware.Authenticate
	prometheus := chiMiddlewareFunc(middleware.PrometheusMetrics)

	// Health endpoints bypass auth so probes and monitors can poll
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(prometheus)

		r.Route("/users", func(r chi.Router) {
			// Account creation and login carry the strictest limits
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitAuth)).
				Post("/register", router.handler.Register)
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitLogin)).
				Post("/login", router.handler.Login)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAPI))
				r.Use(authenticate)
				r.Post("/logout", router.handler.Logout)
				r.Get("/current", router.handler.CurrentUser)
				r.Get("/search", router.handler.SearchUsers)
				r.Get("/{userID}", router.handler.GetUserByID)
				r.Patch("/update", router.handler.UpdateProfile)
				r.Delete("/delete", router.handler.DeleteAccount)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(authenticate)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAPI))
				r.Get("/", router.handler.ListPosts)
				r.Get("/user", router.handler.ListMyPosts)
				r.Get("/category/{category}", router.handler.ListPostsByCategory)
				r.Get("/{postID}", router.handler.GetPost)
			})

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
				r.Post("/create", router.handler.CreatePost)
				r.Patch("/update/{postID}", router.handler.UpdatePost)
				r.Delete("/delete/{postID}", router.handler.DeletePost)
				r.Post("/like/{postID}", router.handler.LikePost)
				r.Post("/share/{postID}", router.handler.SharePost)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(authenticate)

			r.With(router.chiMiddleware.RateLimitCustom(RateLimitAPI)).
				Get("/post/{postID}", router.handler.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
				r.Post("/create/{postID}", router.handler.CreateComment)
				r.Patch("/update/{commentID}", router.handler.UpdateComment)
				r.Delete("/delete/{commentID}", router.handler.DeleteComment)
				r.Post("/like/{commentID}", router.handler.LikeComment)
			})
		})

		r.Route("/replies", func(r chi.Router) {
			r.Use(authenticate)

			r.With(router.chiMiddleware.RateLimitCustom(RateLimitAPI)).
				Get("/comment/{commentID}", router.handler.ListReplies)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
				r.Post("/create/{commentID}", router.handler.CreateReply)
				r.Patch("/update/{replyID}", router.handler.UpdateReply)
				r.Delete("/delete/{replyID}", router.handler.DeleteReply)
				r.Post("/like/{replyID}", router.handler.LikeReply)
			})
		})

		// Live feed websocket
		r.With(authenticate).Get("/live", router.handler.LiveFeed)
	})

	return r
}
