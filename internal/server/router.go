package server

import (
	handler "auction-board/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	authService handler.AuthServiceInterface,
	biddingService handler.BiddingServiceInterface,
	listingService handler.ListingServiceInterface,
	jwtSecret string,
) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	authHandler := handler.NewAuthHandler(authService)
	biddingHandler := handler.NewBiddingHandler(biddingService)
	listingHandler := handler.NewListingHandler(listingService)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterHandler)
		authRoutes.POST("/login", authHandler.LoginHandler)
		authRoutes.POST("/logout", AuthRequired(jwtSecret), authHandler.LogoutHandler)
	}

	listings := router.Group("/listings")
	{
		listings.GET("", listingHandler.IndexHandler)
		listings.GET("/:listing_id", AuthOptional(jwtSecret), listingHandler.GetListingHandler)
		listings.POST("", AuthRequired(jwtSecret), listingHandler.CreateListingHandler)
		listings.POST("/:listing_id/bids", AuthRequired(jwtSecret), biddingHandler.PlaceBidHandler)
		listings.POST("/:listing_id/close", AuthRequired(jwtSecret), listingHandler.CloseListingHandler)
		listings.POST("/:listing_id/comments", AuthRequired(jwtSecret), listingHandler.AddCommentHandler)
	}

	comments := router.Group("/comments")
	{
		comments.DELETE("/:comment_id", AuthRequired(jwtSecret), listingHandler.DeleteCommentHandler)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", listingHandler.CategoriesHandler)
		categories.GET("/:category_id/listings", listingHandler.CategoryListingsHandler)
	}

	me := router.Group("/me", AuthRequired(jwtSecret))
	{
		me.GET("/listings", listingHandler.YourListingsHandler)
		me.GET("/bids", biddingHandler.BidlistHandler)
		me.GET("/won", listingHandler.AuctionsWonHandler)
		me.GET("/watchlist", listingHandler.WatchlistHandler)
		me.POST("/watchlist/:listing_id", listingHandler.AddWatchHandler)
		me.DELETE("/watchlist/:listing_id", listingHandler.RemoveWatchHandler)
	}

	return router
}
