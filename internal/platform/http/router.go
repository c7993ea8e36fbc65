package http

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/staynest/listings-api/internal/business/listing"
	"github.com/staynest/listings-api/internal/business/submission"
	"github.com/staynest/listings-api/pkg/model"
)

const (
	msgInternal      = "Internal Server Error"
	msgMissingFields = "Missing required fields."
	msgReviewPosted  = "Review posted successfully!"
	msgContactSent   = "Request submitted successfully!"
)

// Router wires HTTP handlers.
type Router struct {
	listings    *listing.Service
	submissions *submission.Service
	site        listing.Site
	origins     string
	log         zerolog.Logger
}

func NewRouter(listings *listing.Service, submissions *submission.Service, site listing.Site, allowedOrigins string, logger zerolog.Logger) *gin.Engine {
	r := &Router{
		listings:    listings,
		submissions: submissions,
		site:        site,
		origins:     allowedOrigins,
		log:         logger,
	}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/listings", r.getListings(listing.Hotels))
	router.GET("/listings/metadata", r.getMetadata(listing.Hotels))
	router.GET("/properties", r.getListings(listing.Properties))
	router.GET("/properties/metadata", r.getMetadata(listing.Properties))

	router.POST("/reviews", r.postReview)
	router.POST("/contact", r.postContact)

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	wildcard := len(trimmed) == 0
	for _, o := range trimmed {
		if o == "*" {
			wildcard = true
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(trimmed, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *Router) getListings(cat listing.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if id := strings.TrimSpace(c.Query("id")); id != "" {
			l, err := r.listings.Get(ctx, cat, id)
			if err != nil {
				r.writeListingError(c, cat, err)
				return
			}
			c.JSON(http.StatusOK, l)
			return
		}

		items, err := r.listings.List(ctx, cat, parseFilters(c))
		if err != nil {
			r.writeListingError(c, cat, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func (r *Router) getMetadata(cat listing.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Query("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}
		l, err := r.listings.Get(c.Request.Context(), cat, id)
		if err != nil {
			r.writeListingError(c, cat, err)
			return
		}
		c.JSON(http.StatusOK, listing.BuildMetadata(cat, l, r.site))
	}
}

func (r *Router) postReview(c *gin.Context) {
	var req model.Review
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}
	if _, err := r.submissions.PostReview(c.Request.Context(), req); err != nil {
		r.writeSubmissionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msgReviewPosted})
}

func (r *Router) postContact(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}
	if _, err := r.submissions.SubmitContact(c.Request.Context(), req); err != nil {
		r.writeSubmissionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msgContactSent})
}

func (r *Router) writeListingError(c *gin.Context, cat listing.Catalog, err error) {
	if errors.Is(err, listing.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": cat.NotFoundMessage})
		return
	}
	r.internalError(c, err)
}

func (r *Router) writeSubmissionError(c *gin.Context, err error) {
	if errors.Is(err, submission.ErrMissingFields) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}
	r.internalError(c, err)
}

// internalError logs the failure with the request id and hides it from the caller.
func (r *Router) internalError(c *gin.Context, err error) {
	r.log.Error().
		Err(err).
		Str("request_id", requestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

func parseFilters(c *gin.Context) listing.Filters {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return listing.Filters{
		Featured: c.Query("featured") == "true",
		City:     c.Query("city"),
		Limit:    limit,
	}
}
